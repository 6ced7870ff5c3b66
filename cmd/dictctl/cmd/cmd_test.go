package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedPath = "../../../configs/seed.yaml"

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestClassify(t *testing.T) {
	out, _, err := run(t, "classify", "పిల్లి")
	require.NoError(t, err)
	assert.Contains(t, out, "language:   TELUGU")
	assert.Contains(t, out, "consistent: true")

	out, _, err = run(t, "classify", "catపిల్లి")
	require.NoError(t, err)
	assert.Contains(t, out, "language:   ENGLISH")
	assert.Contains(t, out, "consistent: false")

	out, _, err = run(t, "classify", "123")
	require.NoError(t, err)
	assert.Contains(t, out, "language:   INVALID")
}

func TestClassifyRequiresText(t *testing.T) {
	_, _, err := run(t, "classify")
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		typ   string
		items []string
		lang  string
	}{
		{"telugu exact", []string{"పిల్లి"}, "EXACT", []string{"పిల్లి"}, "TELUGU"},
		{"english exact", []string{"cat"}, "EXACT", []string{"పిల్లి"}, "ENGLISH"},
		{"english estimate", []string{"tigr", "--language", "ENGLISH"}, "ESTIMATE", []string{"పులి"}, "ENGLISH"},
		{"no match", []string{"zebra"}, "ESTIMATE", []string{}, "ENGLISH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--store", "memory", "--seed-file", seedPath, "resolve"}, tt.args...)
			out, _, err := run(t, args...)
			require.NoError(t, err)

			var got resolveOutput
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, tt.typ, string(got.Type))
			assert.Equal(t, tt.items, got.Items)
			assert.Equal(t, tt.lang, got.Language)
		})
	}
}

func TestResolveMalformed(t *testing.T) {
	_, _, err := run(t, "--store", "memory", "resolve", "123")
	require.Error(t, err)

	_, _, err = run(t, "--store", "memory", "resolve", "cat", "--language", "FRENCH")
	require.Error(t, err)
}

func TestAdd(t *testing.T) {
	out, _, err := run(t, "--store", "memory", "--seed-file", seedPath, "add",
		"--word", "ఏనుగు",
		"--sentence", "ఏనుగు పెద్దది.",
		"--translation", "The elephant is big.",
		"--synonyms", "elephant, tusker",
		"--links", "https://te.wiktionary.org/wiki/elephant",
	)
	require.NoError(t, err)
	assert.Equal(t, "added ఏనుగు (elephant, tusker)\n", out)
}

func TestAddExistingWord(t *testing.T) {
	_, _, err := run(t, "--store", "memory", "--seed-file", seedPath, "add",
		"--word", "పిల్లి",
		"--sentence", "పిల్లి నిద్రపోతోంది.",
		"--translation", "The cat is sleeping.",
		"--synonyms", "cat",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAddInvalidForm(t *testing.T) {
	_, stderr, err := run(t, "--store", "memory", "add",
		"--word", "cat",
		"--sentence", "పిల్లి పాలు తాగింది.",
		"--translation", "The cat drank the milk.",
		"--synonyms", "cat",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teluguWord")
	assert.Contains(t, stderr, "teluguWord accepts telugu characters only")
}

func TestSeed(t *testing.T) {
	out, _, err := run(t, "--store", "memory", "seed", "--file", seedPath)
	require.NoError(t, err)
	assert.Contains(t, out, "skipped 0")

	out, _, err = run(t, "--store", "memory", "--seed-file", seedPath, "seed", "--file", seedPath)
	require.NoError(t, err)
	assert.Contains(t, out, "added 0,")
}

func TestSeedRequiresFile(t *testing.T) {
	_, _, err := run(t, "--store", "memory", "seed")
	assert.Error(t, err)
}
