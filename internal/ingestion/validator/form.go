package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/telugupadalu/dictionary/internal/ingestion"
	"github.com/telugupadalu/dictionary/internal/language"
)

// Field names an input of the add-word form.
type Field string

const (
	FieldWord        Field = "teluguWord"
	FieldSentence    Field = "teluguSentence"
	FieldTranslation Field = "englishTranslation"
	FieldSynonyms    Field = "synonymArray"
	FieldLinks       Field = "linkArray"
)

var fieldScript = map[Field]language.Language{
	FieldWord:        language.Primary,
	FieldSentence:    language.Primary,
	FieldTranslation: language.Alternate,
	FieldSynonyms:    language.Alternate,
}

// FormState is the editable content of one add-word form. Each form owns
// its state; nothing is shared between forms.
type FormState struct {
	values map[Field]string
}

func NewFormState() *FormState {
	return &FormState{values: make(map[Field]string)}
}

func known(field Field) error {
	switch field {
	case FieldWord, FieldSentence, FieldTranslation, FieldSynonyms, FieldLinks:
		return nil
	}
	return fmt.Errorf("unknown form field %q", field)
}

// Append adds text, typically one character picked from a keyboard, to the
// end of field.
func (f *FormState) Append(field Field, text string) error {
	if err := known(field); err != nil {
		return err
	}
	f.values[field] += text
	return nil
}

// DeleteLast removes the last character of field. Deleting from an empty
// field is a no-op.
func (f *FormState) DeleteLast(field Field) error {
	if err := known(field); err != nil {
		return err
	}
	v := f.values[field]
	_, size := utf8.DecodeLastRuneInString(v)
	f.values[field] = v[:len(v)-size]
	return nil
}

// Set replaces the content of field.
func (f *FormState) Set(field Field, value string) error {
	if err := known(field); err != nil {
		return err
	}
	f.values[field] = value
	return nil
}

func (f *FormState) Value(field Field) string {
	return f.values[field]
}

// Warnings lists fields holding characters outside their script. Empty
// fields carry no warning.
func (f *FormState) Warnings() map[Field]string {
	warnings := make(map[Field]string)
	for field, script := range fieldScript {
		if !language.Within(f.values[field], script) {
			warnings[field] = fmt.Sprintf("%s accepts %s characters only", field, strings.ToLower(script.String()))
		}
	}
	return warnings
}

// Ready reports whether the form can be submitted: no warnings and every
// required field filled in.
func (f *FormState) Ready() bool {
	if len(f.Warnings()) > 0 {
		return false
	}
	for _, field := range []Field{FieldWord, FieldSentence, FieldTranslation} {
		if strings.TrimSpace(f.values[field]) == "" {
			return false
		}
	}
	return len(splitList(f.values[FieldSynonyms])) > 0
}

// Request converts the form into an add-word request, splitting synonyms
// and links on commas, and validates it.
func (f *FormState) Request() (*ingestion.AddWordRequest, error) {
	req := &ingestion.AddWordRequest{
		TeluguWord:         strings.TrimSpace(f.values[FieldWord]),
		TeluguSentence:     strings.TrimSpace(f.values[FieldSentence]),
		EnglishTranslation: strings.TrimSpace(f.values[FieldTranslation]),
		SynonymArray:       splitList(f.values[FieldSynonyms]),
		LinkArray:          splitList(f.values[FieldLinks]),
	}
	if err := ValidateAddWord(req); err != nil {
		return nil, err
	}
	return req, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
