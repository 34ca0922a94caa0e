package transfer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mangatheque/pkg/models"
)

var csvHeader = []string{
	"series_id", "title", "author", "nationality", "color", "image_url",
	"total_france", "character_name", "volume_id", "volume_number", "owned",
}

// WriteCSV writes one row per volume. A series without volumes still gets a
// row with the volume columns empty.
func WriteCSV(w io.Writer, list []models.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range list {
		total := ""
		if s.TotalAvailableInFrance != nil {
			total = strconv.Itoa(*s.TotalAvailableInFrance)
		}
		base := []string{s.ID, s.Title, s.Author, s.Nationality, s.Color, s.ImageURL, total, s.CharacterName}

		if len(s.Volumes) == 0 {
			if err := cw.Write(append(base, "", "", "")); err != nil {
				return err
			}
			continue
		}
		for _, v := range s.Volumes {
			row := append(append([]string(nil), base...), v.ID, strconv.Itoa(v.Number), strconv.FormatBool(v.Owned))
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV groups rows by series_id, falling back to the title when the id
// column is blank. Series keep the order they first appear in.
func ReadCSV(r io.Reader) ([]models.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	if _, ok := header["title"]; !ok {
		return nil, errors.New("csv: missing title column")
	}

	var out []models.Series
	index := map[string]int{}
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 {
			continue
		}

		title := valueAt(header, row, "title")
		id := valueAt(header, row, "series_id")
		if title == "" && id == "" {
			continue
		}
		key := id
		if key == "" {
			key = "title:" + strings.ToLower(title)
		}

		idx, seen := index[key]
		if !seen {
			s := models.Series{
				ID:            id,
				Title:         title,
				Author:        valueAt(header, row, "author"),
				Nationality:   valueAt(header, row, "nationality"),
				Color:         valueAt(header, row, "color"),
				ImageURL:      valueAt(header, row, "image_url"),
				CharacterName: valueAt(header, row, "character_name"),
				Volumes:       []models.Volume{},
			}
			total, err := parseOptionalInt(valueAt(header, row, "total_france"))
			if err != nil {
				return nil, fmt.Errorf("line %d: total_france: %w", line, err)
			}
			s.TotalAvailableInFrance = total
			out = append(out, s)
			idx = len(out) - 1
			index[key] = idx
		}

		raw := valueAt(header, row, "volume_number")
		if raw == "" {
			continue
		}
		number, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: volume_number: %w", line, err)
		}
		owned := false
		if o := valueAt(header, row, "owned"); o != "" {
			owned, err = strconv.ParseBool(o)
			if err != nil {
				return nil, fmt.Errorf("line %d: owned: %w", line, err)
			}
		}
		out[idx].Volumes = append(out[idx].Volumes, models.Volume{
			ID:     valueAt(header, row, "volume_id"),
			Number: number,
			Owned:  owned,
		})
	}
	return out, nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseOptionalInt(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
