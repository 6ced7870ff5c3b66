package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/telugupadalu/dictionary/internal/language"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <text>",
		Short: "Report the language class of text",
		Long: `Classify reports the language the first character of text belongs to
(TELUGU, ENGLISH or INVALID) and whether the rest of the text stays in
that script.

Examples:
  dictctl classify పిల్లి
  dictctl classify "cat food"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "language:   %s\n", language.Classify(text))
			fmt.Fprintf(out, "consistent: %t\n", language.Consistent(text))
			return nil
		},
	}
}
