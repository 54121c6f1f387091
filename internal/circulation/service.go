package circulation

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/circdesk/internal/models"
	"github.com/lehigh-university-libraries/circdesk/internal/storage"
)

// DateLayout is the on-disk format of loan dates
const DateLayout = "2006-01-02"

type MemberReader interface {
	Get(id string) (models.Member, error)
}

type ItemRepository interface {
	Get(id string) (models.Item, error)
	SetStatus(id string, status models.ItemStatus) error
	List() iter.Seq2[models.Item, error]
}

type LoanRepository interface {
	Add(loan models.Loan) error
	List() iter.Seq2[models.Loan, error]
	RemoveFirst(itemID, memberID string) (models.Loan, error)
}

// Service coordinates borrow and return across the member, item and loan stores.
//
// The item status and the loan table are written separately with no
// transaction around them. A failure between the two writes leaves an item
// whose status disagrees with its loan rows; Audit reports such items.
type Service struct {
	members MemberReader
	items   ItemRepository
	loans   LoanRepository
	now     func() time.Time
}

type Option func(*Service)

// WithClock overrides the source of "today" for new loans
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(members MemberReader, items ItemRepository, loans LoanRepository, opts ...Option) *Service {
	s := &Service{
		members: members,
		items:   items,
		loans:   loans,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Borrow lends an available item to a member.
// The loan row is appended before the item is marked on_loan.
func (s *Service) Borrow(ctx context.Context, memberID, itemID string) (models.Loan, error) {
	if err := ctx.Err(); err != nil {
		return models.Loan{}, err
	}

	member, err := s.member(memberID)
	if err != nil {
		return models.Loan{}, err
	}

	item, err := s.item(itemID)
	if err != nil {
		return models.Loan{}, err
	}
	if !item.Available() {
		return models.Loan{}, fmt.Errorf("%w: %s is %s", ErrItemUnavailable, item.ID, item.Status)
	}

	loan := models.Loan{
		ItemID:   item.ID,
		MemberID: member.ID,
		LoanDate: s.now().Format(DateLayout),
	}
	if err := s.loans.Add(loan); err != nil {
		return models.Loan{}, fmt.Errorf("failed to record loan: %w", err)
	}

	if err := s.items.SetStatus(item.ID, models.StatusOnLoan); err != nil {
		slog.Error("Loan recorded but item status not updated", "item_id", item.ID, "member_id", member.ID, "err", err)
		return models.Loan{}, fmt.Errorf("failed to update item status: %w", err)
	}

	slog.Debug("Book loaned", "item_id", item.ID, "member_id", member.ID, "loan_date", loan.LoanDate)
	return loan, nil
}

// Return checks a loaned item back in.
// The item is marked available before its loan row is removed. When several
// rows match the pair only the first in storage order is removed.
func (s *Service) Return(ctx context.Context, itemID, memberID string) (models.Loan, error) {
	if err := ctx.Err(); err != nil {
		return models.Loan{}, err
	}

	item, err := s.item(itemID)
	if err != nil {
		return models.Loan{}, err
	}
	if item.Available() {
		return models.Loan{}, fmt.Errorf("%w: %s", ErrAlreadyAvailable, item.ID)
	}

	member, err := s.member(memberID)
	if err != nil {
		return models.Loan{}, err
	}

	found, err := s.hasLoan(item.ID, member.ID)
	if err != nil {
		return models.Loan{}, err
	}
	if !found {
		return models.Loan{}, fmt.Errorf("%w: %s borrowed by %s", ErrLoanNotFound, item.ID, member.ID)
	}

	if err := s.items.SetStatus(item.ID, models.StatusAvailable); err != nil {
		return models.Loan{}, fmt.Errorf("failed to update item status: %w", err)
	}

	loan, err := s.loans.RemoveFirst(item.ID, member.ID)
	if err != nil {
		slog.Error("Item marked available but loan record not removed", "item_id", item.ID, "member_id", member.ID, "err", err)
		return models.Loan{}, fmt.Errorf("failed to remove loan record: %w", err)
	}

	slog.Debug("Book returned", "item_id", item.ID, "member_id", member.ID)
	return loan, nil
}

func (s *Service) member(id string) (models.Member, error) {
	m, err := s.members.Get(id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Member{}, fmt.Errorf("%w: %s", ErrMemberNotFound, id)
	}
	if err != nil {
		return models.Member{}, fmt.Errorf("failed to look up member: %w", err)
	}
	return m, nil
}

func (s *Service) item(id string) (models.Item, error) {
	i, err := s.items.Get(id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("failed to look up book: %w", err)
	}
	return i, nil
}

func (s *Service) hasLoan(itemID, memberID string) (bool, error) {
	for l, err := range s.loans.List() {
		if err != nil {
			return false, fmt.Errorf("failed to read loans: %w", err)
		}
		if l.ItemID == itemID && l.MemberID == memberID {
			return true, nil
		}
	}
	return false, nil
}
