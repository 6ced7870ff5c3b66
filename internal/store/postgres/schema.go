package postgres

// Key columns use COLLATE "C" so that ordering is byte order, which for
// UTF-8 is code point order, and prefix buckets become range predicates.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS words (
		headword           TEXT COLLATE "C" PRIMARY KEY,
		sample_sentence    TEXT NOT NULL DEFAULT '',
		sample_translation TEXT NOT NULL DEFAULT '',
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS word_synonyms (
		id       UUID PRIMARY KEY,
		seq      BIGSERIAL,
		headword TEXT COLLATE "C" NOT NULL REFERENCES words(headword),
		synonym  TEXT COLLATE "C" NOT NULL,
		UNIQUE (headword, synonym)
	)`,
	`CREATE TABLE IF NOT EXISTS word_links (
		id       UUID PRIMARY KEY,
		seq      BIGSERIAL,
		headword TEXT COLLATE "C" NOT NULL REFERENCES words(headword),
		link     TEXT NOT NULL,
		UNIQUE (headword, link)
	)`,
	`CREATE TABLE IF NOT EXISTS synonym_index (
		id       UUID PRIMARY KEY,
		seq      BIGSERIAL,
		synonym  TEXT COLLATE "C" NOT NULL,
		headword TEXT COLLATE "C" NOT NULL REFERENCES words(headword),
		UNIQUE (synonym, headword)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_synonym_index_synonym ON synonym_index (synonym)`,
}
