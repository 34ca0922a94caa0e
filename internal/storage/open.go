package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"mangatheque/pkg/database"
	"mangatheque/pkg/utils"
)

// Open builds the slot selected by cfg.Storage.
func Open(cfg utils.Config) (Slot, error) {
	switch cfg.Storage {
	case utils.StorageMemory:
		return NewMemorySlot(), nil
	case utils.StorageBadger:
		path := cfg.BadgerPath
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil || home == "" {
				home = "."
			}
			path = filepath.Join(home, ".mangatheque", "badger")
		}
		return OpenBadger(path, cfg.StorageKey)
	case utils.StorageSQLite, "":
		db, err := database.Open(database.DefaultConfig(cfg.DBPath))
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db migrate: %w", err)
		}
		return NewSQLiteSlot(db, cfg.StorageKey), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
