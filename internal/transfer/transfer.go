// Package transfer moves a collection in and out of JSON and CSV files.
package transfer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mangatheque/pkg/models"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

func Write(w io.Writer, format string, list []models.Series) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, list)
	case FormatCSV:
		return WriteCSV(w, list)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func Read(r io.Reader, format string) ([]models.Series, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatCSV:
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// FormatFromPath guesses the format from the file extension, defaulting to
// JSON.
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return FormatCSV
	}
	return FormatJSON
}

// WriteFile creates parent directories as needed.
func WriteFile(path, format string, list []models.Series) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, format, list); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func ReadFile(path string) ([]models.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, FormatFromPath(path))
}
