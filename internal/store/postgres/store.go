// Package postgres is the durable dictionary store. Headwords and the
// synonym index live in COLLATE "C" columns so exact checks are point
// lookups and prefix buckets are index range scans.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/telugupadalu/dictionary/internal/dictionary"
	"github.com/telugupadalu/dictionary/internal/language"
	apperrors "github.com/telugupadalu/dictionary/pkg/errors"
	pgclient "github.com/telugupadalu/dictionary/pkg/postgres"
)

// Store implements dictionary.Catalog and the ingestion write path on
// Postgres.
type Store struct {
	client *pgclient.Client
	logger *slog.Logger
}

// New wraps client. Call Migrate before first use.
func New(client *pgclient.Client) *Store {
	return &Store{
		client: client,
		logger: slog.Default().With("component", "postgres-store"),
	}
}

// Migrate creates the dictionary tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.client.Migrate(ctx, schema...); err != nil {
		return fmt.Errorf("migrating dictionary schema: %w", err)
	}
	s.logger.Info("dictionary schema ready")
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Index returns the headword index for Primary and the synonym index for
// Alternate.
func (s *Store) Index(lang language.Language) (dictionary.Index, error) {
	switch lang {
	case language.Primary:
		return headwordIndex{db: s.client.DB}, nil
	case language.Alternate:
		return synonymIndex{db: s.client.DB}, nil
	default:
		return nil, fmt.Errorf("postgres store: no index for %s", lang)
	}
}

// AddWord inserts a new entry with its synonyms and links in one
// transaction. An existing headword fails with ErrWordExists.
func (s *Store) AddWord(ctx context.Context, e dictionary.Entry) error {
	e = e.Normalized()
	return s.client.InTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO words (headword, sample_sentence, sample_translation) VALUES ($1, $2, $3)`,
			e.Headword, e.Sentence, e.Translation,
		)
		if pgclient.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", apperrors.ErrWordExists, e.Headword)
		}
		if err != nil {
			return fmt.Errorf("inserting word %s: %w", e.Headword, err)
		}
		if err := insertSynonyms(ctx, tx, e.Headword, e.Synonyms); err != nil {
			return err
		}
		return insertLinks(ctx, tx, e.Headword, e.Links)
	})
}

// AppendSynonyms adds synonyms to an existing headword.
func (s *Store) AppendSynonyms(ctx context.Context, headword string, synonyms []string) error {
	headword = dictionary.Normalize(headword, language.Primary)
	synonyms = dictionary.NormalizeSynonyms(synonyms)
	return s.client.InTx(ctx, func(tx *sql.Tx) error {
		if err := lockWord(ctx, tx, headword); err != nil {
			return err
		}
		return insertSynonyms(ctx, tx, headword, synonyms)
	})
}

// AppendLinks adds reference links to an existing headword.
func (s *Store) AppendLinks(ctx context.Context, headword string, links []string) error {
	headword = dictionary.Normalize(headword, language.Primary)
	return s.client.InTx(ctx, func(tx *sql.Tx) error {
		if err := lockWord(ctx, tx, headword); err != nil {
			return err
		}
		return insertLinks(ctx, tx, headword, links)
	})
}

// GetWord returns the entry for headword with synonyms and links in the
// order they were added.
func (s *Store) GetWord(ctx context.Context, headword string) (*dictionary.Entry, error) {
	headword = dictionary.Normalize(headword, language.Primary)
	e := &dictionary.Entry{Headword: headword}
	err := s.client.DB.QueryRowContext(ctx,
		`SELECT sample_sentence, sample_translation, created_at FROM words WHERE headword = $1`,
		headword,
	).Scan(&e.Sentence, &e.Translation, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrWordNotFound, headword)
	}
	if err != nil {
		return nil, fmt.Errorf("loading word %s: %w", headword, err)
	}

	if e.Synonyms, err = queryStrings(ctx, s.client.DB,
		`SELECT synonym FROM word_synonyms WHERE headword = $1 ORDER BY seq`, headword); err != nil {
		return nil, err
	}
	if e.Links, err = queryStrings(ctx, s.client.DB,
		`SELECT link FROM word_links WHERE headword = $1 ORDER BY seq`, headword); err != nil {
		return nil, err
	}
	return e, nil
}

func lockWord(ctx context.Context, tx *sql.Tx, headword string) error {
	var found string
	err := tx.QueryRowContext(ctx,
		`SELECT headword FROM words WHERE headword = $1 FOR SHARE`, headword,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", apperrors.ErrWordNotFound, headword)
	}
	if err != nil {
		return fmt.Errorf("locking word %s: %w", headword, err)
	}
	return nil
}

func insertSynonyms(ctx context.Context, tx *sql.Tx, headword string, synonyms []string) error {
	for _, syn := range synonyms {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO word_synonyms (id, headword, synonym) VALUES ($1, $2, $3) ON CONFLICT (headword, synonym) DO NOTHING`,
			uuid.New(), headword, syn,
		); err != nil {
			return fmt.Errorf("inserting synonym %s: %w", syn, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO synonym_index (id, synonym, headword) VALUES ($1, $2, $3) ON CONFLICT (synonym, headword) DO NOTHING`,
			uuid.New(), syn, headword,
		); err != nil {
			return fmt.Errorf("indexing synonym %s: %w", syn, err)
		}
	}
	return nil
}

func insertLinks(ctx context.Context, tx *sql.Tx, headword string, links []string) error {
	for _, link := range links {
		if link == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO word_links (id, headword, link) VALUES ($1, $2, $3) ON CONFLICT (headword, link) DO NOTHING`,
			uuid.New(), headword, link,
		); err != nil {
			return fmt.Errorf("inserting link %s: %w", link, err)
		}
	}
	return nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryStrings(ctx context.Context, db querier, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

// rangeQuery builds the bucket query for first over column of table.
func rangeQuery(table, column string, first rune) (string, []any) {
	lo, hi := dictionary.KeyRange(first)
	if hi == "" {
		return fmt.Sprintf(`SELECT DISTINCT %[2]s FROM %[1]s WHERE %[2]s >= $1 ORDER BY %[2]s`, table, column), []any{lo}
	}
	return fmt.Sprintf(`SELECT DISTINCT %[2]s FROM %[1]s WHERE %[2]s >= $1 AND %[2]s < $2 ORDER BY %[2]s`, table, column), []any{lo, hi}
}

type headwordIndex struct{ db *sql.DB }

func (h headwordIndex) Exists(ctx context.Context, key string) (bool, error) {
	var ok bool
	err := h.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM words WHERE headword = $1)`, key).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("checking headword: %w", err)
	}
	return ok, nil
}

func (h headwordIndex) Associated(ctx context.Context, key string) ([]string, error) {
	ok, err := h.Exists(ctx, key)
	if err != nil || !ok {
		return []string{}, err
	}
	return []string{key}, nil
}

func (h headwordIndex) RangeByPrefix(ctx context.Context, first rune) ([]string, error) {
	query, args := rangeQuery("words", "headword", first)
	return queryStrings(ctx, h.db, query, args...)
}

type synonymIndex struct{ db *sql.DB }

func (si synonymIndex) Exists(ctx context.Context, key string) (bool, error) {
	var ok bool
	err := si.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM synonym_index WHERE synonym = $1)`, key).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("checking synonym: %w", err)
	}
	return ok, nil
}

func (si synonymIndex) Associated(ctx context.Context, key string) ([]string, error) {
	return queryStrings(ctx, si.db, `SELECT headword FROM synonym_index WHERE synonym = $1 ORDER BY seq`, key)
}

func (si synonymIndex) RangeByPrefix(ctx context.Context, first rune) ([]string, error) {
	query, args := rangeQuery("synonym_index", "synonym", first)
	return queryStrings(ctx, si.db, query, args...)
}
