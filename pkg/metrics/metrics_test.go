package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithRegistry_IsolatedRegistries(t *testing.T) {
	a := NewWithRegistry(prometheus.NewRegistry())
	b := NewWithRegistry(prometheus.NewRegistry())

	a.LookupsTotal.WithLabelValues("TELUGU", "exact").Inc()
	a.LookupsTotal.WithLabelValues("TELUGU", "exact").Inc()
	b.LookupsTotal.WithLabelValues("TELUGU", "exact").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(a.LookupsTotal.WithLabelValues("TELUGU", "exact")))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.LookupsTotal.WithLabelValues("TELUGU", "exact")))
}

func TestNewWithRegistry_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)
	m.WordsAddedTotal.Inc()
	m.CacheHitsTotal.WithLabelValues("redis").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["dictionary_words_added_total"])
	assert.True(t, names["cache_hits_total"])
}
