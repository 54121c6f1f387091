package cmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/circdesk/internal/circulation"
	"github.com/lehigh-university-libraries/circdesk/internal/models"
	"github.com/lehigh-university-libraries/circdesk/internal/seed"
	"github.com/lehigh-university-libraries/circdesk/internal/storage"
)

// library bundles the three stores and the loan coordinator over one data directory
type library struct {
	dir     string
	members *storage.MemberStore
	items   *storage.ItemStore
	loans   *storage.LoanStore
	circ    *circulation.Service
}

func openLibrary(dir string) (*library, error) {
	members, err := storage.NewMemberStore(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open members: %w", err)
	}
	items, err := storage.NewItemStore(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open items: %w", err)
	}
	loans, err := storage.NewLoanStore(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open loans: %w", err)
	}

	return &library{
		dir:     dir,
		members: members,
		items:   items,
		loans:   loans,
		circ:    circulation.NewService(members, items, loans),
	}, nil
}

// seed fills empty member and item stores from fixtures
func (l *library) seed(f seed.Fixtures) (members, items int, err error) {
	members, err = seed.Seed[models.Member](l.members, f.Members)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to seed members: %w", err)
	}
	items, err = seed.Seed[models.Item](l.items, f.Items)
	if err != nil {
		return members, 0, fmt.Errorf("failed to seed items: %w", err)
	}
	return members, items, nil
}

// removeItem removes every row for id unless the book is on loan
func (l *library) removeItem(id string) (int, error) {
	item, err := l.items.Get(id)
	if err != nil {
		return 0, err
	}
	if !item.Available() {
		return 0, fmt.Errorf("book %s is on loan and must be returned first", id)
	}
	return l.items.Delete(id)
}
