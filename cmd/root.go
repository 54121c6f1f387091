package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const dataDirEnv = "LIBRARY_DATA_DIR"

type rootOptions struct {
	dataDir string
	verbose bool
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "circdesk",
		Short: "Circulation desk for a small library: members, books and loans",
		Long: `Circdesk manages the members, books and loans of a small library.

Records are kept as comma-separated files in a data directory. Run without a
subcommand to open the interactive menu, or use the subcommands for scripting.`,
		Example: `  # Open the interactive menu
  circdesk

  # Borrow and return from the command line
  circdesk loan borrow M001 B001
  circdesk loan return B001 M001

  # Keep data somewhere else
  LIBRARY_DATA_DIR=/srv/library circdesk member list`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			if !cmd.Flags().Changed("data-dir") {
				if dir := os.Getenv(dataDirEnv); dir != "" {
					opts.dataDir = dir
				}
			}

			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			slog.Debug("Using data directory", "dir", opts.dataDir)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "csv", "Directory holding members.csv, items.csv and library.csv (env "+dataDirEnv+")")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newShellCmd(opts))
	cmd.AddCommand(newSeedCmd(opts))
	cmd.AddCommand(newMemberCmd(opts))
	cmd.AddCommand(newItemCmd(opts))
	cmd.AddCommand(newLoanCmd(opts))
	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newExportCmd(opts))

	return cmd
}
