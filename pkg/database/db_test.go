package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	cfg := DefaultConfig(filepath.Join(t.TempDir(), "nested", "data.db"))
	db, err := Open(cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db))
	// idempotent
	require.NoError(t, Migrate(db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv_store`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestDefaultConfig_HomeFallback(t *testing.T) {
	cfg := DefaultConfig("")
	assert.Equal(t, "data.db", filepath.Base(cfg.Path))
	assert.Equal(t, ".mangatheque", filepath.Base(filepath.Dir(cfg.Path)))
}
