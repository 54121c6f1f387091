package circulation

import (
	"context"
	"testing"

	"github.com/lehigh-university-libraries/circdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditReportsEveryKindOfViolation(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.items.Add(models.Item{ID: "B003", Title: "Dune", Author: "Frank Herbert", Status: models.StatusOnLoan}))
	require.NoError(t, f.items.Add(models.Item{ID: "B004", Title: "Emma", Author: "Jane Austen", Status: models.StatusOnLoan}))
	require.NoError(t, f.loans.Add(models.Loan{ItemID: "B002", MemberID: "M001", LoanDate: "2024-05-01"}))
	require.NoError(t, f.loans.Add(models.Loan{ItemID: "B004", MemberID: "M001", LoanDate: "2024-05-01"}))
	require.NoError(t, f.loans.Add(models.Loan{ItemID: "B004", MemberID: "M002", LoanDate: "2024-05-02"}))
	require.NoError(t, f.loans.Add(models.Loan{ItemID: "B777", MemberID: "M002", LoanDate: "2024-05-02"}))

	violations, err := f.svc.Audit(context.Background())
	require.NoError(t, err)

	got := make(map[string]string, len(violations))
	for _, v := range violations {
		got[v.ItemID] = v.Reason
	}
	assert.Equal(t, map[string]string{
		"B002": "not on loan but has a loan record",
		"B003": "on loan without a loan record",
		"B004": "more than one loan record",
		"B777": "loan record for unknown book",
	}, got)
}

func TestAuditCleanLibrary(t *testing.T) {
	f := newFixture(t)
	f.assertConsistent(t)
}

func TestViolationString(t *testing.T) {
	v := Violation{ItemID: "B001", Status: models.StatusOnLoan, Loans: 0, Reason: "on loan without a loan record"}
	assert.Equal(t, "B001 (on_loan, 0 loan rows): on loan without a loan record", v.String())
}
