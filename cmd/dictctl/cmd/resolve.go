package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/telugupadalu/dictionary/internal/dictionary"
	"github.com/telugupadalu/dictionary/internal/language"
)

type resolveOutput struct {
	Type     dictionary.Kind `json:"type"`
	Items    []string        `json:"items"`
	Query    string          `json:"query"`
	Language string          `json:"language"`
}

func newResolveCmd(g *globalOptions) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "resolve <entry>",
		Short: "Look an entry up in the dictionary",
		Long: `Resolve looks entry up the same way the search service does and prints
the result as JSON. The language is detected from the first character
unless --language is given.

Examples:
  dictctl resolve పిల్లి
  dictctl resolve kitte --language ENGLISH`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry := strings.Join(args, " ")
			ctx := cmd.Context()

			cfg, backend, closeFn, err := g.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			route, err := language.Route(entry, lang)
			if err != nil {
				return err
			}
			resolver, err := dictionary.NewResolver(backend, dictionary.OptionsFromConfig(cfg.Resolver))
			if err != nil {
				return err
			}
			res, err := resolver.Resolve(ctx, entry, route)
			if err != nil {
				return fmt.Errorf("resolving %q: %w", entry, err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resolveOutput{
				Type:     res.Kind,
				Items:    res.Items,
				Query:    entry,
				Language: route.String(),
			})
		},
	}

	cmd.Flags().StringVarP(&lang, "language", "l", "", "index to search: TELUGU or ENGLISH (default: detect)")
	return cmd
}
