package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/telugupadalu/dictionary/internal/ingestion/validator"
)

type addOptions struct {
	word        string
	sentence    string
	translation string
	synonyms    string
	links       string
}

func newAddCmd(g *globalOptions) *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a word to the dictionary",
		Long: `Add fills an add-word form from flags, reports script warnings for each
field, validates the form and writes the entry to the store.

Synonyms and links are comma separated.

Example:
  dictctl add --word పిల్లి --sentence "పిల్లి పాలు తాగింది." \
    --translation "The cat drank the milk." --synonyms cat,kitten`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, err := opts.form()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			warnings := form.Warnings()
			fields := make([]string, 0, len(warnings))
			for f := range warnings {
				fields = append(fields, string(f))
			}
			sort.Strings(fields)
			for _, f := range fields {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warnings[validator.Field(f)])
			}

			req, err := form.Request()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			_, backend, closeFn, err := g.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := backend.AddWord(ctx, req.Entry()); err != nil {
				return fmt.Errorf("adding %s: %w", req.TeluguWord, err)
			}
			fmt.Fprintf(out, "added %s (%s)\n", req.TeluguWord, strings.Join(req.SynonymArray, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.word, "word", "", "Telugu headword")
	cmd.Flags().StringVar(&opts.sentence, "sentence", "", "Telugu sample sentence")
	cmd.Flags().StringVar(&opts.translation, "translation", "", "English translation of the sentence")
	cmd.Flags().StringVar(&opts.synonyms, "synonyms", "", "comma-separated English synonyms")
	cmd.Flags().StringVar(&opts.links, "links", "", "comma-separated reference links")
	return cmd
}

func (o addOptions) form() (*validator.FormState, error) {
	form := validator.NewFormState()
	for field, value := range map[validator.Field]string{
		validator.FieldWord:        o.word,
		validator.FieldSentence:    o.sentence,
		validator.FieldTranslation: o.translation,
		validator.FieldSynonyms:    o.synonyms,
		validator.FieldLinks:       o.links,
	} {
		if err := form.Set(field, value); err != nil {
			return nil, err
		}
	}
	return form, nil
}
