package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telugupadalu/dictionary/internal/dictionary"
	"github.com/telugupadalu/dictionary/internal/language"
	"github.com/telugupadalu/dictionary/pkg/config"
)

func TestOpen_MemoryWithSeed(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	cfg.Store.SeedFile = "../../configs/seed.yaml"

	backend, closeFn, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()

	resolver, err := dictionary.NewResolver(backend, dictionary.OptionsFromConfig(cfg.Resolver))
	require.NoError(t, err)
	res, err := resolver.Resolve(context.Background(), "dog", language.Alternate)
	require.NoError(t, err)
	assert.Equal(t, []string{"కుక్క"}, res.Items)

	entry, err := backend.GetWord(context.Background(), "పులి")
	require.NoError(t, err)
	assert.Equal(t, []string{"tiger"}, entry.Synonyms)
}

func TestOpen_MissingSeedFile(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	cfg.Store.SeedFile = "does-not-exist.yaml"

	_, _, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = "firebase"
	_, _, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}

func TestOpenShared_RejectsMemory(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	cfg.Store.SeedFile = "../../configs/seed.yaml"

	_, _, err := OpenShared(context.Background(), cfg)
	require.ErrorIs(t, err, ErrProcessLocal)
	assert.Contains(t, err.Error(), "postgres")
}

func TestDevelopmentConfig_UsesSharedStore(t *testing.T) {
	cfg, err := config.Load("../../configs/development.yaml")
	require.NoError(t, err)
	assert.Equal(t, config.BackendPostgres, cfg.Store.Backend)
}
