package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mangatheque/pkg/models"
)

// SQLiteSlot keeps the blob in the kv_store table.
type SQLiteSlot struct {
	DB  *sql.DB
	Key string
}

func NewSQLiteSlot(db *sql.DB, key string) *SQLiteSlot {
	return &SQLiteSlot{DB: db, Key: key}
}

func (s *SQLiteSlot) Load(ctx context.Context) ([]models.Series, error) {
	var blob []byte
	err := s.DB.QueryRowContext(ctx, `
		SELECT value FROM kv_store WHERE key = ?
	`, s.Key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.Series{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	return decode(blob)
}

func (s *SQLiteSlot) Save(ctx context.Context, list []models.Series) error {
	blob, err := encode(list)
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, s.Key, blob)
	if err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	return nil
}

func (s *SQLiteSlot) Close() error {
	return s.DB.Close()
}
