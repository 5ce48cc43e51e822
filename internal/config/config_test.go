package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tcgpx.yaml")
	data := []byte(`
tables_dir: /srv/tables
port: "9100"
match:
  seed: 42
  max_turns: 10
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/tables", cfg.TablesDir)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, int64(42), cfg.Match.Seed)
	assert.Equal(t, 10, cfg.Match.MaxTurns)
	// untouched keys keep defaults
	assert.Equal(t, "data/decks.yaml", cfg.DecksFile)
	assert.Equal(t, 3, cfg.Match.BenchSize)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tcgpx.yaml")
	require.NoError(t, os.WriteFile(path, []byte("match:\n  seed: 1\n"), 0o600))

	t.Setenv("TCGPX_SEED", "7")
	t.Setenv("TCGPX_CATALOG", "/tmp/catalog.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Match.Seed)
	assert.Equal(t, "/tmp/catalog.yaml", cfg.CatalogFile)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("match: [unterminated"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadInvalidEnv(t *testing.T) {
	t.Setenv("TCGPX_MAX_TURNS", "many")

	_, err := Load("")
	assert.Error(t, err)
}
