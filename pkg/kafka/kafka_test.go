package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wordAdded struct {
	Headword string   `json:"headword"`
	Synonyms []string `json:"synonyms"`
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	msg, err := encode(Event{Key: "పిల్లి", Value: wordAdded{Headword: "పిల్లి", Synonyms: []string{"cat"}}})
	require.NoError(t, err)
	assert.Equal(t, "పిల్లి", string(msg.Key))

	got, err := DecodeJSON[wordAdded](msg.Value)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat"}, got.Synonyms)
}

func TestEncode_RejectsUnmarshalable(t *testing.T) {
	_, err := encode(Event{Key: "k", Value: make(chan int)})
	require.Error(t, err)
}

func TestDecodeJSON_Malformed(t *testing.T) {
	_, err := DecodeJSON[wordAdded]([]byte("{not json"))
	require.ErrorIs(t, err, ErrUndecodable)
}
