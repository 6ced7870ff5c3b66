package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLookupURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8082/api/v1/search/cat", lookupURL("http://localhost:8082/", "cat"))
	assert.Equal(t,
		"http://x/api/v1/search/%E0%B0%AA%E0%B1%81%E0%B0%B2%E0%B0%BF",
		lookupURL("http://x", "పులి"))
}

func TestSplitEntries(t *testing.T) {
	assert.Equal(t, []string{"cat", "పులి"}, splitEntries(" cat ,, పులి,"))
}

func TestRecordResult(t *testing.T) {
	s := NewStats()
	s.RecordResult([]byte(`{"type":"EXACT","items":["పిల్లి"]}`))
	s.RecordResult([]byte(`{"type":"ESTIMATE","items":["పిల్లి"]}`))
	s.RecordResult([]byte(`{"type":"ESTIMATE","items":[]}`))
	s.RecordResult([]byte(`garbage`))

	assert.Equal(t, int64(1), s.exactCount.Load())
	assert.Equal(t, int64(1), s.estimateCount.Load())
	assert.Equal(t, int64(1), s.emptyCount.Load())
}

func TestPercentile(t *testing.T) {
	sorted := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, time.Duration(5), percentile(sorted, 50))
	assert.Equal(t, time.Duration(10), percentile(sorted, 99))
	assert.Equal(t, time.Duration(0), percentile(nil, 50))
}
