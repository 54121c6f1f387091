package cmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/circdesk/internal/seed"
	"github.com/spf13/cobra"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill empty member and item files with sample data",
		Long: `Adds sample members and books to stores that have no rows yet.
Stores that already hold data are left alone, so seeding twice is harmless.

Samples come from the built-in set unless --from names a YAML file or a
directory of Parquet files written by "circdesk export --format parquet".`,
		Example: `  # Built-in samples
  circdesk seed

  # Samples from a file
  circdesk seed --from fixtures.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary(opts.dataDir)
			if err != nil {
				return err
			}

			var fixtures seed.Fixtures
			if from != "" {
				fixtures, err = seed.LoadFixtures(from)
			} else {
				fixtures, err = seed.Defaults()
			}
			if err != nil {
				return err
			}

			members, items, err := lib.seed(fixtures)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d members and %d items.\n", members, items)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "YAML file or Parquet directory with sample members and items")
	return cmd
}
