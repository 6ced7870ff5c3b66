package analytics

import "time"

type EventType string

const (
	EventLookup    EventType = "lookup"
	EventWordAdded EventType = "word_added"
)

// LookupEvent describes one resolved query as seen by the search service.
type LookupEvent struct {
	Type      EventType `json:"type"`
	Query     string    `json:"query"`
	Language  string    `json:"language"`
	Outcome   string    `json:"outcome"`
	Items     int       `json:"items"`
	LatencyUs int64     `json:"latency_us"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// WordEvent records a dictionary write.
type WordEvent struct {
	Type      EventType `json:"type"`
	Headword  string    `json:"headword"`
	Synonyms  int       `json:"synonyms"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLookupEvent stamps a lookup event with the current time.
func NewLookupEvent(query, lang, outcome string, items int, latency time.Duration, cacheHit bool, requestID string) LookupEvent {
	return LookupEvent{
		Type:      EventLookup,
		Query:     query,
		Language:  lang,
		Outcome:   outcome,
		Items:     items,
		LatencyUs: latency.Microseconds(),
		CacheHit:  cacheHit,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// NewWordEvent stamps a word event with the current time.
func NewWordEvent(headword string, synonyms int) WordEvent {
	return WordEvent{
		Type:      EventWordAdded,
		Headword:  headword,
		Synonyms:  synonyms,
		Timestamp: time.Now().UTC(),
	}
}
