package transfer

import (
	"encoding/json"
	"fmt"
	"io"

	"mangatheque/pkg/models"
)

// WriteJSON writes the collection in the same shape as the stored slot.
func WriteJSON(w io.Writer, list []models.Series) error {
	if list == nil {
		list = []models.Series{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func ReadJSON(r io.Reader) ([]models.Series, error) {
	var list []models.Series
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	for i := range list {
		if list[i].Volumes == nil {
			list[i].Volumes = []models.Volume{}
		}
	}
	return list, nil
}
