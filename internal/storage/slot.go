// Package storage persists the whole collection as one JSON blob under a
// single key.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mangatheque/pkg/models"
)

// ErrCorrupt is returned when the stored blob cannot be decoded.
var ErrCorrupt = errors.New("stored collection is corrupt")

// Slot loads and saves the entire collection. Load on a missing key returns
// an empty, non-nil collection.
type Slot interface {
	Load(ctx context.Context) ([]models.Series, error)
	Save(ctx context.Context, list []models.Series) error
	Close() error
}

func encode(list []models.Series) ([]byte, error) {
	if list == nil {
		list = []models.Series{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("marshal collection: %w", err)
	}
	return b, nil
}

func decode(b []byte) ([]models.Series, error) {
	var list []models.Series
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if list == nil {
		list = []models.Series{}
	}
	for i := range list {
		if list[i].Volumes == nil {
			list[i].Volumes = []models.Volume{}
		}
	}
	return list, nil
}
