// Package store opens the configured dictionary backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/telugupadalu/dictionary/internal/dictionary"
	"github.com/telugupadalu/dictionary/internal/ingestion"
	"github.com/telugupadalu/dictionary/internal/store/memory"
	pgstore "github.com/telugupadalu/dictionary/internal/store/postgres"
	"github.com/telugupadalu/dictionary/internal/store/seed"
	"github.com/telugupadalu/dictionary/pkg/config"
	pgclient "github.com/telugupadalu/dictionary/pkg/postgres"
)

// Backend is a key store usable by both the resolver and the write path.
type Backend interface {
	dictionary.Catalog
	ingestion.WordStore
	Ping(ctx context.Context) error
}

var (
	_ Backend = (*memory.Store)(nil)
	_ Backend = (*pgstore.Store)(nil)
)

// ErrProcessLocal is returned by OpenShared for the memory backend.
var ErrProcessLocal = errors.New("memory backend is process-local")

// OpenShared opens the backend for a service whose reads or writes must be
// seen by other processes. The searcher and ingestion services run apart, so
// words written to one memory store would never reach the other; only
// postgres is accepted.
func OpenShared(ctx context.Context, cfg *config.Config) (Backend, func() error, error) {
	if cfg.Store.Backend == config.BackendMemory {
		return nil, nil, fmt.Errorf("%w: set store.backend to %q for the searcher and ingestion services", ErrProcessLocal, config.BackendPostgres)
	}
	return Open(ctx, cfg)
}

// Open returns the backend named by cfg.Store.Backend and a function that
// releases it. Postgres is migrated on open. When a seed file is configured
// its entries are added; words already present are left alone.
func Open(ctx context.Context, cfg *config.Config) (Backend, func() error, error) {
	var (
		backend Backend
		closeFn = func() error { return nil }
	)
	switch cfg.Store.Backend {
	case config.BackendMemory:
		backend = memory.New()
	case config.BackendPostgres:
		client, err := pgclient.New(cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		st := pgstore.New(client)
		if err := st.Migrate(ctx); err != nil {
			client.Close()
			return nil, nil, err
		}
		backend, closeFn = st, client.Close
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if cfg.Store.SeedFile != "" {
		entries, err := seed.Load(cfg.Store.SeedFile)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		stats, err := seed.Apply(ctx, backend, entries)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		slog.Info("dictionary seeded",
			"file", cfg.Store.SeedFile,
			"added", stats.Added,
			"skipped", stats.Skipped,
		)
	}
	slog.Info("key store opened", "backend", cfg.Store.Backend)
	return backend, closeFn, nil
}
