package seed

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/lehigh-university-libraries/circdesk/internal/export"
	"github.com/lehigh-university-libraries/circdesk/internal/models"
	"github.com/lehigh-university-libraries/circdesk/internal/storage"
)

func TestDefaults(t *testing.T) {
	f, err := Defaults()
	if err != nil {
		t.Fatalf("Defaults() error: %v", err)
	}

	wantMembers := []models.Member{
		{ID: "M001", Name: "Alice", MembershipDate: "2024-01-10"},
		{ID: "M002", Name: "Bob", MembershipDate: "2024-02-12"},
	}
	if !reflect.DeepEqual(f.Members, wantMembers) {
		t.Errorf("Expected members %v, got %v", wantMembers, f.Members)
	}

	wantItems := []models.Item{
		models.NewItem("B001", "1984", "George Orwell"),
		models.NewItem("B002", "To Kill a Mockingbird", "Harper Lee"),
	}
	if !reflect.DeepEqual(f.Items, wantItems) {
		t.Errorf("Expected items %v, got %v", wantItems, f.Items)
	}
}

func TestSeedMembersIsIdempotent(t *testing.T) {
	store, err := storage.NewMemberStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewMemberStore() error: %v", err)
	}
	f, err := Defaults()
	if err != nil {
		t.Fatalf("Defaults() error: %v", err)
	}

	added, err := Seed[models.Member](store, f.Members)
	if err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if added != 2 {
		t.Errorf("Expected 2 rows added, got %d", added)
	}

	added, err = Seed[models.Member](store, f.Members)
	if err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}
	if added != 0 {
		t.Errorf("Expected re-seed to add nothing, got %d", added)
	}

	var got []models.Member
	for m, err := range store.List() {
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		got = append(got, m)
	}
	if !reflect.DeepEqual(got, f.Members) {
		t.Errorf("Expected rows %v, got %v", f.Members, got)
	}
}

func TestSeedSkipsNonEmptyStore(t *testing.T) {
	store, err := storage.NewItemStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewItemStore() error: %v", err)
	}
	if err := store.Add(models.NewItem("B100", "Beloved", "Toni Morrison")); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	f, _ := Defaults()
	added, err := Seed[models.Item](store, f.Items)
	if err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	if added != 0 {
		t.Errorf("Expected 0 rows added, got %d", added)
	}

	n, _ := store.Count()
	if n != 1 {
		t.Errorf("Expected 1 row, got %d", n)
	}
}

func TestLoadFixtures(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "fixtures.yml")
	content := `members:
  - id: M010
    name: Carol
    membership_date: "2025-05-15"
items:
  - id: B010
    title: Middlemarch
    author: George Eliot
`
	if err := os.WriteFile(yamlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	parquetDir := filepath.Join(dir, "snapshot")
	snap := &export.Snapshot{
		Members: []models.Member{{ID: "M020", Name: "Dan", MembershipDate: "2025-06-01"}},
		Items:   []models.Item{models.NewItem("B020", "Ulysses", "James Joyce")},
		Loans:   []models.Loan{},
	}
	if _, err := export.WriteParquet(snap, parquetDir); err != nil {
		t.Fatalf("WriteParquet() error: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		want    Fixtures
		wantErr bool
	}{
		{
			name: "yaml file defaults status",
			path: yamlPath,
			want: Fixtures{
				Members: []models.Member{{ID: "M010", Name: "Carol", MembershipDate: "2025-05-15"}},
				Items:   []models.Item{models.NewItem("B010", "Middlemarch", "George Eliot")},
			},
		},
		{
			name: "parquet directory",
			path: parquetDir,
			want: Fixtures{
				Members: snap.Members,
				Items:   snap.Items,
			},
		},
		{
			name:    "unsupported extension",
			path:    filepath.Join(parquetDir, export.MembersParquet),
			wantErr: true,
		},
		{
			name:    "missing file",
			path:    filepath.Join(dir, "nope.yaml"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadFixtures(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got fixtures %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFixtures() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
