package models

// ItemStatus is the circulation state of an item
type ItemStatus string

const (
	StatusAvailable ItemStatus = "available"
	StatusOnLoan    ItemStatus = "on_loan"
)

// Member represents a registered library member
type Member struct {
	ID             string `json:"id" yaml:"id" parquet:"id"`
	Name           string `json:"name" yaml:"name" parquet:"name"`
	MembershipDate string `json:"membership_date" yaml:"membership_date" parquet:"membership_date"` // YYYY-MM-DD
}

// Item represents a lendable item (usually a book)
type Item struct {
	ID     string     `json:"id" yaml:"id" parquet:"id"`
	Title  string     `json:"title" yaml:"title" parquet:"title"`
	Author string     `json:"author" yaml:"author" parquet:"author"`
	Status ItemStatus `json:"status" yaml:"status" parquet:"status"`
}

// NewItem returns an item that starts out available
func NewItem(id, title, author string) Item {
	return Item{
		ID:     id,
		Title:  title,
		Author: author,
		Status: StatusAvailable,
	}
}

// Available reports whether the item can be borrowed
func (i Item) Available() bool {
	return i.Status == StatusAvailable
}

// Loan links an item to the member currently holding it.
// Loans have no key of their own; an item is on loan at most once.
type Loan struct {
	ItemID   string `json:"item_id" yaml:"item_id" parquet:"item_id"`
	MemberID string `json:"borrowed_by" yaml:"borrowed_by" parquet:"borrowed_by"`
	LoanDate string `json:"loan_date" yaml:"loan_date" parquet:"loan_date"`
}
