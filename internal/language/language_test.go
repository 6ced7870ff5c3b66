package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/telugupadalu/dictionary/pkg/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want Language
	}{
		{"పిల్లి", Primary},
		{"cat", Alternate},
		{"Cat", Alternate},
		{"Zebra", Alternate},
		{"", Invalid},
		{"1cat", Invalid},
		{" cat", Invalid},
		{"çat", Invalid},
		{"ఀ", Primary},
		{"౿", Primary},
		{"ಀ", Invalid},
		{"௿", Invalid},
		// first rune decides; the rest is not inspected
		{"catపిల్లి", Alternate},
		{"పిల్లిcat", Primary},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestConsistent(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"పిల్లి", true},
		{"పిల్లి పాలు తాగింది.", true},
		{"hello, world!", true},
		{"it's (42)", true},
		{"శ్రీ\u200cనివాస్", true},
		{"catపిల్లి", false},
		{"పిల్లిcat", false},
		{"café", false},
		{"", false},
		{"123", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Consistent(tt.text))
		})
	}
}

// Every rune is scanned, not just the first few.
func TestConsistent_FlagsMixedScriptAnywhereInText(t *testing.T) {
	assert.True(t, Consistent("abcdefghij"))
	assert.False(t, Consistent("abcdefghiజ"), "a foreign rune in the last position must be caught")
	assert.False(t, Consistent("అaఆ"))
}

func TestFieldValidators(t *testing.T) {
	assert.True(t, ValidPrimaryField("పిల్లి"))
	assert.True(t, ValidPrimaryField("పిల్లి 2 కళ్ళు?"))
	assert.False(t, ValidPrimaryField("cat"))
	assert.False(t, ValidPrimaryField("123"))
	assert.False(t, ValidPrimaryField(""))

	assert.True(t, ValidAlternateField("the cat drinks milk."))
	assert.True(t, ValidAlternateField("house-cat"))
	assert.False(t, ValidAlternateField("పిల్లి"))
	assert.False(t, ValidAlternateField("cat@home"))
	assert.False(t, ValidAlternateField("!!"))
}

func TestParseParam(t *testing.T) {
	lang, detect, err := ParseParam("TELUGU")
	require.NoError(t, err)
	assert.Equal(t, Primary, lang)
	assert.False(t, detect)

	lang, _, err = ParseParam("english")
	require.NoError(t, err)
	assert.Equal(t, Alternate, lang)

	_, detect, err = ParseParam("")
	require.NoError(t, err)
	assert.True(t, detect)

	_, _, err = ParseParam("HINDI")
	assert.ErrorIs(t, err, apperrors.ErrMalformedQuery)
}

func TestRoute(t *testing.T) {
	lang, err := Route("cat", "")
	require.NoError(t, err)
	assert.Equal(t, Alternate, lang)

	lang, err = Route("  పిల్లి", "")
	require.NoError(t, err)
	assert.Equal(t, Primary, lang)

	lang, err = Route("cat", "TELUGU")
	require.NoError(t, err)
	assert.Equal(t, Primary, lang, "explicit parameter wins over detection")

	_, err = Route("42", "")
	assert.ErrorIs(t, err, apperrors.ErrMalformedQuery)
}

func TestString(t *testing.T) {
	assert.Equal(t, "TELUGU", Primary.String())
	assert.Equal(t, "ENGLISH", Alternate.String())
	assert.Equal(t, "INVALID", Invalid.String())
}
