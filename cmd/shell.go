package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/lehigh-university-libraries/circdesk/internal/models"
	"github.com/lehigh-university-libraries/circdesk/internal/report"
	"github.com/lehigh-university-libraries/circdesk/internal/seed"
	"github.com/lehigh-university-libraries/circdesk/internal/shell"
	"github.com/lehigh-university-libraries/circdesk/internal/storage"
	"github.com/spf13/cobra"
)

func newShellCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Open the interactive menu (default)",
		Long: `Opens the numbered library menu. Empty member and item files are
seeded with sample data first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts)
		},
	}
}

func runShell(cmd *cobra.Command, opts *rootOptions) error {
	lib, err := openLibrary(opts.dataDir)
	if err != nil {
		return err
	}

	samples, err := seed.Defaults()
	if err != nil {
		return err
	}
	if _, _, err := lib.seed(samples); err != nil {
		return err
	}

	sh := shell.New(menu(lib), cmd.InOrStdin(), cmd.OutOrStdout())
	return sh.Run(cmd.Context())
}

// menu is the ordered list of shell entries
func menu(lib *library) []shell.Option {
	return []shell.Option{
		{Label: "List members", Action: lib.listMembers},
		{Label: "Add member", Action: lib.addMember},
		{Label: "Update member", Action: lib.updateMember},
		{Label: "Delete member", Action: lib.deleteMember},
		{Label: "List items", Action: lib.listItems},
		{Label: "Add item", Action: lib.addItem},
		{Label: "Delete item", Action: lib.deleteItem},
		{Label: "Borrow book", Action: lib.borrowBook},
		{Label: "Return book", Action: lib.returnBook},
		{Label: "List loans", Action: lib.listLoans},
		{Label: "Check consistency", Action: lib.checkConsistency},
		{Label: "Quit"},
	}
}

func (l *library) listMembers(ctx context.Context, s *shell.Session) error {
	_, err := report.Write(s.Out(), report.FormatText, report.Members, l.members.List())
	return err
}

func (l *library) addMember(ctx context.Context, s *shell.Session) error {
	id, err := s.Require("ID: ", "member ID")
	if err != nil {
		return err
	}
	name, err := s.Require("Name: ", "name")
	if err != nil {
		return err
	}
	date, err := s.Require("Date (YYYY-MM-DD): ", "membership date")
	if err != nil {
		return err
	}

	if err := l.members.Add(models.Member{ID: id, Name: name, MembershipDate: date}); err != nil {
		return err
	}
	s.Printf("Member %s added.\n", id)
	return nil
}

func (l *library) updateMember(ctx context.Context, s *shell.Session) error {
	id, err := s.Require("Member ID: ", "member ID")
	if err != nil {
		return err
	}
	m, err := l.members.Get(id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("member not found: %s", id)
	}
	if err != nil {
		return err
	}

	if name := s.Ask(fmt.Sprintf("Name [%s]: ", m.Name)); name != "" {
		m.Name = name
	}
	if date := s.Ask(fmt.Sprintf("Date (YYYY-MM-DD) [%s]: ", m.MembershipDate)); date != "" {
		m.MembershipDate = date
	}

	if err := l.members.Update(m); err != nil {
		return err
	}
	s.Printf("Member %s updated.\n", id)
	return nil
}

func (l *library) deleteMember(ctx context.Context, s *shell.Session) error {
	id, err := s.Require("Enter the ID of the member to delete: ", "member ID")
	if err != nil {
		return err
	}

	_, err = l.members.Delete(id)
	if errors.Is(err, storage.ErrNotFound) {
		s.Printf("No member with ID '%s' found.\n", id)
		return nil
	}
	if err != nil {
		return err
	}
	s.Printf("Member with ID '%s' has been deleted.\n", id)
	return nil
}

func (l *library) listItems(ctx context.Context, s *shell.Session) error {
	_, err := report.Write(s.Out(), report.FormatText, report.Items, l.items.List())
	return err
}

func (l *library) addItem(ctx context.Context, s *shell.Session) error {
	id, err := s.Require("ID: ", "book ID")
	if err != nil {
		return err
	}
	title, err := s.Require("Title: ", "title")
	if err != nil {
		return err
	}
	author, err := s.Require("Author: ", "author")
	if err != nil {
		return err
	}

	if err := l.items.Add(models.NewItem(id, title, author)); err != nil {
		return err
	}
	s.Printf("Item %s added.\n", id)
	return nil
}

func (l *library) deleteItem(ctx context.Context, s *shell.Session) error {
	id, err := s.Require("Enter the ID of the item to delete: ", "book ID")
	if err != nil {
		return err
	}

	_, err = l.removeItem(id)
	if errors.Is(err, storage.ErrNotFound) {
		s.Printf("No item with ID '%s' found.\n", id)
		return nil
	}
	if err != nil {
		return err
	}
	s.Printf("Item with ID '%s' has been deleted.\n", id)
	return nil
}

func (l *library) borrowBook(ctx context.Context, s *shell.Session) error {
	memberID, err := s.Require("Member ID: ", "member ID")
	if err != nil {
		return err
	}
	itemID, err := s.Require("Book ID: ", "book ID")
	if err != nil {
		return err
	}

	loan, err := l.circ.Borrow(ctx, memberID, itemID)
	if err != nil {
		return err
	}
	s.Printf("Book %s loaned to member %s on %s.\n", loan.ItemID, loan.MemberID, loan.LoanDate)
	return nil
}

func (l *library) returnBook(ctx context.Context, s *shell.Session) error {
	itemID, err := s.Require("Book ID: ", "book ID")
	if err != nil {
		return err
	}
	memberID, err := s.Require("Member ID: ", "member ID")
	if err != nil {
		return err
	}

	loan, err := l.circ.Return(ctx, itemID, memberID)
	if err != nil {
		return err
	}
	s.Printf("Book %s returned by member %s.\n", loan.ItemID, loan.MemberID)
	return nil
}

func (l *library) listLoans(ctx context.Context, s *shell.Session) error {
	_, err := report.Write(s.Out(), report.FormatText, report.Loans, l.loans.List())
	return err
}

func (l *library) checkConsistency(ctx context.Context, s *shell.Session) error {
	violations, err := l.circ.Audit(ctx)
	if err != nil {
		return err
	}
	if len(violations) == 0 {
		s.Printf("All items consistent with loan records.\n")
		return nil
	}
	for _, v := range violations {
		s.Printf("%s\n", v)
	}
	return fmt.Errorf("%d inconsistent items", len(violations))
}
