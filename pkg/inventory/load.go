package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/marmos91/dittonas/internal/bytesize"
)

// DefaultMaxFileSize bounds inventory documents when no limit is configured.
const DefaultMaxFileSize = 16 * bytesize.MiB

// ErrTooLarge is returned for documents above the configured size limit.
var ErrTooLarge = errors.New("inventory document too large")

// Load reads, decodes and validates the inventory file at path.
func Load(path string, maxSize bytesize.ByteSize) (*Document, error) {
	if maxSize == 0 {
		maxSize = DefaultMaxFileSize
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory: %w", err)
	}
	defer func() { _ = f.Close() }()

	if info, err := f.Stat(); err == nil && info.Size() > int64(maxSize) {
		return nil, fmt.Errorf("%w: %s is %s, limit %s", ErrTooLarge, path, bytesize.ByteSize(info.Size()), maxSize)
	}

	return Parse(f, maxSize)
}

// Parse decodes and validates an inventory document. Unknown keys are
// rejected so that typos do not silently drop records.
func Parse(r io.Reader, maxSize bytesize.ByteSize) (*Document, error) {
	if maxSize == 0 {
		maxSize = DefaultMaxFileSize
	}

	data, err := io.ReadAll(io.LimitReader(r, int64(maxSize)+1))
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}
	if int64(len(data)) > int64(maxSize) {
		return nil, fmt.Errorf("%w: limit %s", ErrTooLarge, maxSize)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}
