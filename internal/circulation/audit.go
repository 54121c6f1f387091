package circulation

import (
	"context"
	"fmt"
	"sort"

	"github.com/lehigh-university-libraries/circdesk/internal/models"
)

// Violation describes an item whose status disagrees with the loan table
type Violation struct {
	ItemID string
	Status models.ItemStatus
	Loans  int
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s (%s, %d loan rows): %s", v.ItemID, v.Status, v.Loans, v.Reason)
}

// Audit checks that every item is on_loan exactly when one loan row
// references it. It only reads.
func (s *Service) Audit(ctx context.Context) ([]Violation, error) {
	loansByItem := make(map[string]int)
	for l, err := range s.loans.List() {
		if err != nil {
			return nil, fmt.Errorf("failed to read loans: %w", err)
		}
		loansByItem[l.ItemID]++
	}

	var violations []Violation
	seen := make(map[string]bool)
	for item, err := range s.items.List() {
		if err != nil {
			return nil, fmt.Errorf("failed to read items: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seen[item.ID] = true

		n := loansByItem[item.ID]
		v := Violation{ItemID: item.ID, Status: item.Status, Loans: n}
		switch {
		case item.Status == models.StatusOnLoan && n == 0:
			v.Reason = "on loan without a loan record"
		case item.Status != models.StatusOnLoan && n > 0:
			v.Reason = "not on loan but has a loan record"
		case n > 1:
			v.Reason = "more than one loan record"
		default:
			continue
		}
		violations = append(violations, v)
	}

	var orphans []string
	for id := range loansByItem {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		violations = append(violations, Violation{
			ItemID: id,
			Loans:  loansByItem[id],
			Reason: "loan record for unknown book",
		})
	}

	return violations, nil
}
