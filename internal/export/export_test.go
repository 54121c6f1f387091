package export

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/circdesk/internal/models"
	"github.com/lehigh-university-libraries/circdesk/internal/storage"
)

func seededStores(t *testing.T) (string, *storage.MemberStore, *storage.ItemStore, *storage.LoanStore) {
	t.Helper()
	dir := t.TempDir()

	members, err := storage.NewMemberStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	items, err := storage.NewItemStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	loans, err := storage.NewLoanStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := members.Add(models.Member{ID: "M001", Name: "Alice", MembershipDate: "2024-01-10"}); err != nil {
		t.Fatal(err)
	}
	if err := items.Add(models.Item{ID: "B001", Title: "1984", Author: "George Orwell", Status: models.StatusOnLoan}); err != nil {
		t.Fatal(err)
	}
	if err := loans.Add(models.Loan{ItemID: "B001", MemberID: "M001", LoanDate: "2024-06-03"}); err != nil {
		t.Fatal(err)
	}
	return dir, members, items, loans
}

func TestCollect(t *testing.T) {
	dir, members, items, loans := seededStores(t)

	snap, err := Collect(dir, members, items, loans)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	if snap.DataDir != dir {
		t.Errorf("Expected DataDir %s, got %s", dir, snap.DataDir)
	}
	if len(snap.Members) != 1 || len(snap.Items) != 1 || len(snap.Loans) != 1 {
		t.Errorf("Expected one row per table, got %d/%d/%d", len(snap.Members), len(snap.Items), len(snap.Loans))
	}
	if snap.Loans[0].MemberID != "M001" {
		t.Errorf("Expected loan borrowed by M001, got %s", snap.Loans[0].MemberID)
	}
}

func TestWriteAndReadYAML(t *testing.T) {
	dir, members, items, loans := seededStores(t)
	snap, err := Collect(dir, members, items, loans)
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "exports")
	path, err := WriteYAML(snap, out)
	if err != nil {
		t.Fatalf("WriteYAML() error: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "library-") || filepath.Ext(path) != ".yaml" {
		t.Errorf("Unexpected snapshot file name %s", path)
	}

	got, err := ReadYAML(path)
	if err != nil {
		t.Fatalf("ReadYAML() error: %v", err)
	}
	if !reflect.DeepEqual(got, snap) {
		t.Errorf("Expected %+v, got %+v", snap, got)
	}
}

func TestWriteAndReadParquet(t *testing.T) {
	dir, members, items, loans := seededStores(t)
	snap, err := Collect(dir, members, items, loans)
	if err != nil {
		t.Fatal(err)
	}

	out := t.TempDir()
	paths, err := WriteParquet(snap, out)
	if err != nil {
		t.Fatalf("WriteParquet() error: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("Expected 3 files, got %d", len(paths))
	}

	gotLoans, err := ReadParquet[models.Loan](filepath.Join(out, LoansParquet))
	if err != nil {
		t.Fatalf("ReadParquet() error: %v", err)
	}
	if !reflect.DeepEqual(gotLoans, snap.Loans) {
		t.Errorf("Expected loans %v, got %v", snap.Loans, gotLoans)
	}

	gotItems, err := ReadParquet[models.Item](filepath.Join(out, ItemsParquet))
	if err != nil {
		t.Fatalf("ReadParquet() error: %v", err)
	}
	if len(gotItems) != 1 || gotItems[0].Status != models.StatusOnLoan {
		t.Errorf("Expected one on_loan item, got %v", gotItems)
	}
}

func TestReadParquetMissingFile(t *testing.T) {
	rows, err := ReadParquet[models.Member](filepath.Join(t.TempDir(), "absent.parquet"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(rows))
	}
}
