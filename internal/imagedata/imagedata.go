// Package imagedata turns a local image into a data URL that can be stored
// inline with a series.
package imagedata

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const DefaultMaxBytes int64 = 8 << 20

var (
	ErrNotImage = errors.New("file is not an image")
	ErrTooLarge = errors.New("image is too large")
	ErrEmpty    = errors.New("image is empty")
)

type Encoder struct {
	MaxBytes int64
}

func NewEncoder(maxBytes int64) Encoder {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return Encoder{MaxBytes: maxBytes}
}

// Encode reads r fully and returns data:<mime>;base64,<payload>.
func (e Encoder) Encode(r io.Reader) (string, error) {
	limit := e.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(b) == 0 {
		return "", ErrEmpty
	}
	if int64(len(b)) > limit {
		return "", fmt.Errorf("%w: over %d bytes", ErrTooLarge, limit)
	}

	mt := mimetype.Detect(b)
	mime := mt.String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mime)
	}

	var buf bytes.Buffer
	buf.Grow(len("data:;base64,") + len(mime) + base64.StdEncoding.EncodedLen(len(b)))
	buf.WriteString("data:")
	buf.WriteString(mime)
	buf.WriteString(";base64,")
	buf.WriteString(base64.StdEncoding.EncodeToString(b))
	return buf.String(), nil
}

func (e Encoder) EncodeFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return e.Encode(f)
}
