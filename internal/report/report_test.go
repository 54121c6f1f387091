package report

import (
	"bytes"
	"errors"
	"iter"
	"reflect"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/circdesk/internal/models"
)

func seq[T any](rows ...T) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, r := range rows {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func TestWriteMembers(t *testing.T) {
	members := []models.Member{
		{ID: "M001", Name: "Alice", MembershipDate: "2024-01-10"},
		{ID: "M002", Name: "Bob", MembershipDate: "2024-02-12"},
	}

	tests := []struct {
		name     string
		format   string
		expected string
	}{
		{
			name:     "text",
			format:   FormatText,
			expected: "M001: Alice (2024-01-10)\nM002: Bob (2024-02-12)\n",
		},
		{
			name:     "csv",
			format:   FormatCSV,
			expected: "id,name,membership_date\nM001,Alice,2024-01-10\nM002,Bob,2024-02-12\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := Write(&buf, tt.format, Members, seq(members...))
			if err != nil {
				t.Fatalf("Write() error: %v", err)
			}
			if n != 2 {
				t.Errorf("Expected 2 rows, got %d", n)
			}
			if buf.String() != tt.expected {
				t.Errorf("Expected:\n%s\nGot:\n%s", tt.expected, buf.String())
			}
		})
	}
}

func TestWriteMembersJSON(t *testing.T) {
	members := []models.Member{
		{ID: "M001", Name: "Alice", MembershipDate: "2024-01-10"},
		{ID: "M002", Name: "Bob", MembershipDate: "2024-02-12"},
	}

	var buf bytes.Buffer
	if _, err := Write(&buf, FormatJSON, Members, seq(members...)); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"membership_date"`) {
		t.Errorf("Expected snake_case keys in output, got:\n%s", buf.String())
	}

	var got []models.Member
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(got, members) {
		t.Errorf("Expected %v, got %v", members, got)
	}
}

func TestWriteItemsAndLoansText(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Write(&buf, FormatText, Items, seq(models.NewItem("B001", "1984", "George Orwell"))); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "B001: 1984 (George Orwell) - available\n"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	buf.Reset()
	if _, err := Write(&buf, FormatText, Loans, seq(models.Loan{ItemID: "B001", MemberID: "M001", LoanDate: "2024-06-03"})); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "B001 borrowed by M001 on 2024-06-03\n"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	n, err := Write(&buf, FormatText, Loans, seq[models.Loan]())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || buf.String() != "No active loans.\n" {
		t.Errorf("Unexpected output %q (%d rows)", buf.String(), n)
	}

	buf.Reset()
	if _, err := Write(&buf, FormatJSON, Loans, seq[models.Loan]()); err != nil {
		t.Fatal(err)
	}
	var got []models.Loan
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil || len(got) != 0 {
		t.Errorf("Expected empty JSON array, got %q", buf.String())
	}
}

func TestWriteErrors(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Write(&buf, "xml", Members, seq[models.Member]()); err == nil {
		t.Error("Expected error for unsupported format")
	}

	boom := errors.New("read failed")
	failing := func(yield func(models.Member, error) bool) {
		yield(models.Member{}, boom)
	}
	if _, err := Write(&buf, FormatText, Members, failing); !errors.Is(err, boom) {
		t.Errorf("Expected %v, got %v", boom, err)
	}
}
