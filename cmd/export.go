package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/lehigh-university-libraries/circdesk/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of all tables as YAML or Parquet",
		Example: `  # Timestamped YAML file in ./exports
  circdesk export

  # One Parquet file per table
  circdesk export --format parquet --output ./snapshot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary(opts.dataDir)
			if err != nil {
				return err
			}

			snap, err := export.Collect(lib.dir, lib.members, lib.items, lib.loans)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				path, err := export.WriteYAML(snap, output)
				if err != nil {
					return err
				}
				absPath, _ := filepath.Abs(path)
				fmt.Fprintf(out, "Snapshot saved to: %s\n", absPath)
			case "parquet":
				paths, err := export.WriteParquet(snap, output)
				if err != nil {
					return err
				}
				for _, p := range paths {
					fmt.Fprintf(out, "Wrote %s\n", p)
				}
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Snapshot format (yaml or parquet)")
	cmd.Flags().StringVar(&output, "output", "exports", "Output directory")
	return cmd
}
