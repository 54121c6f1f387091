package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify book status against loan records",
		Long: `Reports every book whose status disagrees with the loan file: books
marked on_loan with no loan row, available books that still have one, books
with more than one loan row, and loan rows for unknown books.

Borrow and return write two files one after the other, so an interrupted
operation can leave these behind. Exits non-zero when anything is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary(opts.dataDir)
			if err != nil {
				return err
			}

			violations, err := lib.circ.Audit(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(violations) == 0 {
				fmt.Fprintln(out, "All items consistent with loan records.")
				return nil
			}
			for _, v := range violations {
				fmt.Fprintln(out, v)
			}
			return fmt.Errorf("%d inconsistent items", len(violations))
		},
	}
}
