package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"

	jsoniter "github.com/json-iterator/go"
	"github.com/lehigh-university-libraries/circdesk/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Supported output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Layout describes how one record type is rendered
type Layout[T any] struct {
	Header []string
	Fields func(T) []string
	Line   func(T) string
	Empty  string
}

var Members = Layout[models.Member]{
	Header: []string{"id", "name", "membership_date"},
	Fields: func(m models.Member) []string { return []string{m.ID, m.Name, m.MembershipDate} },
	Line:   func(m models.Member) string { return fmt.Sprintf("%s: %s (%s)", m.ID, m.Name, m.MembershipDate) },
	Empty:  "No members found.",
}

var Items = Layout[models.Item]{
	Header: []string{"id", "title", "author", "status"},
	Fields: func(i models.Item) []string { return []string{i.ID, i.Title, i.Author, string(i.Status)} },
	Line: func(i models.Item) string {
		return fmt.Sprintf("%s: %s (%s) - %s", i.ID, i.Title, i.Author, i.Status)
	},
	Empty: "No items found.",
}

var Loans = Layout[models.Loan]{
	Header: []string{"item_id", "borrowed_by", "loan_date"},
	Fields: func(l models.Loan) []string { return []string{l.ItemID, l.MemberID, l.LoanDate} },
	Line: func(l models.Loan) string {
		return fmt.Sprintf("%s borrowed by %s on %s", l.ItemID, l.MemberID, l.LoanDate)
	},
	Empty: "No active loans.",
}

// Write renders rows to w in the given format and returns how many were written
func Write[T any](w io.Writer, format string, layout Layout[T], rows iter.Seq2[T, error]) (int, error) {
	switch format {
	case FormatText, "":
		return writeText(w, layout, rows)
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatCSV:
		return writeCSV(w, layout, rows)
	default:
		return 0, fmt.Errorf("unsupported format: %s", format)
	}
}

func writeText[T any](w io.Writer, layout Layout[T], rows iter.Seq2[T, error]) (int, error) {
	n := 0
	for rec, err := range rows {
		if err != nil {
			return n, err
		}
		if _, err := fmt.Fprintln(w, layout.Line(rec)); err != nil {
			return n, err
		}
		n++
	}
	if n == 0 && layout.Empty != "" {
		if _, err := fmt.Fprintln(w, layout.Empty); err != nil {
			return 0, err
		}
	}
	return n, nil
}

func writeJSON[T any](w io.Writer, rows iter.Seq2[T, error]) (int, error) {
	all := []T{}
	for rec, err := range rows {
		if err != nil {
			return 0, err
		}
		all = append(all, rec)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(all); err != nil {
		return 0, err
	}
	return len(all), nil
}

func writeCSV[T any](w io.Writer, layout Layout[T], rows iter.Seq2[T, error]) (int, error) {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(layout.Header); err != nil {
		return 0, err
	}

	n := 0
	for rec, err := range rows {
		if err != nil {
			return n, err
		}
		if err := writer.Write(layout.Fields(rec)); err != nil {
			return n, err
		}
		n++
	}

	writer.Flush()
	return n, writer.Error()
}
