package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telugupadalu/dictionary/internal/store/seed"
)

func newSeedCmd(g *globalOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load words from a YAML seed file into the store",
		Long: `Seed adds every word in the YAML file to the configured store. Words
whose headword already exists are skipped, so seeding can be repeated.

Example:
  dictctl seed --store postgres --file configs/seed.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := seed.Load(file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			_, backend, closeFn, err := g.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			stats, err := seed.Apply(ctx, backend, entries)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d, skipped %d\n", stats.Added, stats.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file to load")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
