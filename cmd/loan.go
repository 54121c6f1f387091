package cmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/circdesk/internal/report"
	"github.com/spf13/cobra"
)

func newLoanCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loan",
		Short: "Borrow, return and list loans",
	}

	cmd.AddCommand(newLoanListCmd(opts))
	cmd.AddCommand(newLoanBorrowCmd(opts))
	cmd.AddCommand(newLoanReturnCmd(opts))

	return cmd
}

func newLoanListCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary(opts.dataDir)
			if err != nil {
				return err
			}
			_, err = report.Write(cmd.OutOrStdout(), format, report.Loans, lib.loans.List())
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", report.FormatText, "Output format (text, json, csv)")
	return cmd
}

func newLoanBorrowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "borrow MEMBER_ID BOOK_ID",
		Short:   "Lend an available book to a member",
		Example: `  circdesk loan borrow M002 B002`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary(opts.dataDir)
			if err != nil {
				return err
			}
			loan, err := lib.circ.Borrow(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Book %s loaned to member %s on %s.\n", loan.ItemID, loan.MemberID, loan.LoanDate)
			return nil
		},
	}
}

func newLoanReturnCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "return BOOK_ID MEMBER_ID",
		Short:   "Check a book back in",
		Example: `  circdesk loan return B002 M002`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary(opts.dataDir)
			if err != nil {
				return err
			}
			loan, err := lib.circ.Return(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Book %s returned by member %s.\n", loan.ItemID, loan.MemberID)
			return nil
		},
	}
}
