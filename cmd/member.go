package cmd

import (
	"errors"
	"fmt"

	"github.com/lehigh-university-libraries/circdesk/internal/models"
	"github.com/lehigh-university-libraries/circdesk/internal/report"
	"github.com/lehigh-university-libraries/circdesk/internal/storage"
	"github.com/spf13/cobra"
)

func newMemberCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "List, add, update and delete members",
	}

	cmd.AddCommand(newMemberListCmd(opts))
	cmd.AddCommand(newMemberAddCmd(opts))
	cmd.AddCommand(newMemberUpdateCmd(opts))
	cmd.AddCommand(newMemberDeleteCmd(opts))

	return cmd
}

func newMemberListCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List members in storage order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary(opts.dataDir)
			if err != nil {
				return err
			}
			_, err = report.Write(cmd.OutOrStdout(), format, report.Members, lib.members.List())
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", report.FormatText, "Output format (text, json, csv)")
	return cmd
}

func newMemberAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "add ID NAME DATE",
		Short:   "Append a member",
		Example: `  circdesk member add M003 Carol 2024-03-15`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary(opts.dataDir)
			if err != nil {
				return err
			}
			m := models.Member{ID: args[0], Name: args[1], MembershipDate: args[2]}
			if err := lib.members.Add(m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Member %s added.\n", m.ID)
			return nil
		},
	}
}

func newMemberUpdateCmd(opts *rootOptions) *cobra.Command {
	var name string
	var date string

	cmd := &cobra.Command{
		Use:     "update ID",
		Short:   "Change a member's name or membership date",
		Example: `  circdesk member update M002 --name Robert`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary(opts.dataDir)
			if err != nil {
				return err
			}

			m, err := lib.members.Get(args[0])
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("member not found: %s", args[0])
			}
			if err != nil {
				return err
			}
			if name != "" {
				m.Name = name
			}
			if date != "" {
				m.MembershipDate = date
			}

			if err := lib.members.Update(m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Member %s updated.\n", m.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&date, "date", "", "New membership date (YYYY-MM-DD)")
	return cmd
}

func newMemberDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete every row for a member id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary(opts.dataDir)
			if err != nil {
				return err
			}

			removed, err := lib.members.Delete(args[0])
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no member with ID '%s' found", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Member with ID '%s' has been deleted (%d rows).\n", args[0], removed)
			return nil
		},
	}
}
