package cmd

import (
	"errors"
	"fmt"

	"github.com/lehigh-university-libraries/circdesk/internal/models"
	"github.com/lehigh-university-libraries/circdesk/internal/report"
	"github.com/lehigh-university-libraries/circdesk/internal/storage"
	"github.com/spf13/cobra"
)

func newItemCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "item",
		Aliases: []string{"book"},
		Short:   "List, add and delete books",
	}

	cmd.AddCommand(newItemListCmd(opts))
	cmd.AddCommand(newItemAddCmd(opts))
	cmd.AddCommand(newItemDeleteCmd(opts))

	return cmd
}

func newItemListCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books with their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary(opts.dataDir)
			if err != nil {
				return err
			}
			_, err = report.Write(cmd.OutOrStdout(), format, report.Items, lib.items.List())
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", report.FormatText, "Output format (text, json, csv)")
	return cmd
}

func newItemAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "add ID TITLE AUTHOR",
		Short:   "Append an available book",
		Example: `  circdesk item add B003 "Brave New World" "Aldous Huxley"`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary(opts.dataDir)
			if err != nil {
				return err
			}
			if err := lib.items.Add(models.NewItem(args[0], args[1], args[2])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item %s added.\n", args[0])
			return nil
		},
	}
}

func newItemDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete every row for a book id",
		Long: `Deletes every row for a book id. A book that is on loan has to be
returned first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary(opts.dataDir)
			if err != nil {
				return err
			}

			removed, err := lib.removeItem(args[0])
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no item with ID '%s' found", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item with ID '%s' has been deleted (%d rows).\n", args[0], removed)
			return nil
		},
	}
}
