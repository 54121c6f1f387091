package storage

import (
	"iter"
	"path/filepath"

	"github.com/lehigh-university-libraries/circdesk/internal/models"
)

// Backing file names inside the data directory
const (
	MembersFile = "members.csv"
	ItemsFile   = "items.csv"
	LoansFile   = "library.csv"
)

var (
	memberColumns = []string{"id", "name", "membership_date"}
	itemColumns   = []string{"id", "title", "author", "status"}
	loanColumns   = []string{"item_id", "borrowed_by", "loan_date"}
)

// MemberStore persists members in members.csv
type MemberStore struct {
	t *table[models.Member]
}

// NewMemberStore opens (creating if needed) the members table in dir
func NewMemberStore(dir string) (*MemberStore, error) {
	t, err := newTable(filepath.Join(dir, MembersFile), memberColumns,
		func(m models.Member) []string {
			return []string{m.ID, m.Name, m.MembershipDate}
		},
		func(r row) models.Member {
			return models.Member{
				ID:             r("id"),
				Name:           r("name"),
				MembershipDate: r("membership_date"),
			}
		})
	if err != nil {
		return nil, err
	}
	return &MemberStore{t: t}, nil
}

func (s *MemberStore) Path() string { return s.t.path }

func (s *MemberStore) Get(id string) (models.Member, error) {
	return get(s.t, id, func(m models.Member) string { return m.ID })
}

// Add appends the member without checking for an existing id
func (s *MemberStore) Add(m models.Member) error {
	return s.t.append(m)
}

// Update replaces name and membership date on every row with the member's id
func (s *MemberStore) Update(m models.Member) error {
	return update(s.t, m.ID, map[string]string{
		"name":            m.Name,
		"membership_date": m.MembershipDate,
	})
}

func (s *MemberStore) List() iter.Seq2[models.Member, error] {
	return s.t.all()
}

// Delete removes every row with id and reports how many went away
func (s *MemberStore) Delete(id string) (int, error) {
	return remove(s.t, id)
}

func (s *MemberStore) Count() (int, error) {
	return s.t.count()
}

// ItemStore persists items in items.csv
type ItemStore struct {
	t *table[models.Item]
}

// NewItemStore opens (creating if needed) the items table in dir
func NewItemStore(dir string) (*ItemStore, error) {
	t, err := newTable(filepath.Join(dir, ItemsFile), itemColumns,
		func(i models.Item) []string {
			return []string{i.ID, i.Title, i.Author, string(i.Status)}
		},
		func(r row) models.Item {
			return models.Item{
				ID:     r("id"),
				Title:  r("title"),
				Author: r("author"),
				Status: models.ItemStatus(r("status")),
			}
		})
	if err != nil {
		return nil, err
	}
	return &ItemStore{t: t}, nil
}

func (s *ItemStore) Path() string { return s.t.path }

func (s *ItemStore) Get(id string) (models.Item, error) {
	return get(s.t, id, func(i models.Item) string { return i.ID })
}

// Add appends the item. An empty status is stored as available.
func (s *ItemStore) Add(i models.Item) error {
	if i.Status == "" {
		i.Status = models.StatusAvailable
	}
	return s.t.append(i)
}

// Update replaces title, author and status on every row with the item's id
func (s *ItemStore) Update(i models.Item) error {
	return update(s.t, i.ID, map[string]string{
		"title":  i.Title,
		"author": i.Author,
		"status": string(i.Status),
	})
}

// SetStatus changes only the status column of every row with id
func (s *ItemStore) SetStatus(id string, status models.ItemStatus) error {
	return update(s.t, id, map[string]string{"status": string(status)})
}

func (s *ItemStore) List() iter.Seq2[models.Item, error] {
	return s.t.all()
}

// Delete removes every row with id and reports how many went away
func (s *ItemStore) Delete(id string) (int, error) {
	return remove(s.t, id)
}

func (s *ItemStore) Count() (int, error) {
	return s.t.count()
}

// LoanStore persists loan records in library.csv
type LoanStore struct {
	t *table[models.Loan]
}

// NewLoanStore opens (creating if needed) the loans table in dir
func NewLoanStore(dir string) (*LoanStore, error) {
	t, err := newTable(filepath.Join(dir, LoansFile), loanColumns,
		func(l models.Loan) []string {
			return []string{l.ItemID, l.MemberID, l.LoanDate}
		},
		func(r row) models.Loan {
			return models.Loan{
				ItemID:   r("item_id"),
				MemberID: r("borrowed_by"),
				LoanDate: r("loan_date"),
			}
		})
	if err != nil {
		return nil, err
	}
	return &LoanStore{t: t}, nil
}

func (s *LoanStore) Path() string { return s.t.path }

func (s *LoanStore) Add(l models.Loan) error {
	return s.t.append(l)
}

func (s *LoanStore) List() iter.Seq2[models.Loan, error] {
	return s.t.all()
}

func (s *LoanStore) Count() (int, error) {
	return s.t.count()
}

// RemoveFirst rewrites the table without the first row matching both ids.
// Later duplicates are kept.
func (s *LoanStore) RemoveFirst(itemID, memberID string) (models.Loan, error) {
	sh, err := s.t.read()
	if err != nil {
		return models.Loan{}, err
	}

	for i, record := range sh.records {
		l := s.t.decode(sh.row(record))
		if l.ItemID == itemID && l.MemberID == memberID {
			sh.records = append(sh.records[:i:i], sh.records[i+1:]...)
			if err := s.t.rewrite(sh); err != nil {
				return models.Loan{}, err
			}
			return l, nil
		}
	}
	return models.Loan{}, ErrNotFound
}

func get[T any](t *table[T], id string, key func(T) string) (T, error) {
	for rec, err := range t.all() {
		if err != nil {
			var zero T
			return zero, err
		}
		if key(rec) == id {
			return rec, nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

// update sets values on every row whose key column equals id.
// Other columns, including ones the table does not know, are left as they are.
func update[T any](t *table[T], id string, values map[string]string) error {
	s, err := t.read()
	if err != nil {
		return err
	}

	matched := 0
	for i, record := range s.records {
		if s.row(record)(t.key) == id {
			s.records[i] = s.set(record, values)
			matched++
		}
	}
	if matched == 0 {
		return ErrNotFound
	}
	return t.rewrite(s)
}

func remove[T any](t *table[T], id string) (int, error) {
	s, err := t.read()
	if err != nil {
		return 0, err
	}

	kept := make([][]string, 0, len(s.records))
	for _, record := range s.records {
		if s.row(record)(t.key) != id {
			kept = append(kept, record)
		}
	}

	removed := len(s.records) - len(kept)
	if removed == 0 {
		return 0, ErrNotFound
	}
	s.records = kept
	if err := t.rewrite(s); err != nil {
		return 0, err
	}
	return removed, nil
}
