// Package bytesize reads sizes written as "16Mi", "1.5 TB" or plain byte
// counts in config files and inventory documents.
package bytesize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// ByteSize is a number of bytes. String renders binary units, the same
// form the API uses for its *_si fields.
type ByteSize uint64

const (
	B  ByteSize = 1
	KB ByteSize = 1000 * B
	MB ByteSize = 1000 * KB
	GB ByteSize = 1000 * MB
	TB ByteSize = 1000 * GB

	KiB ByteSize = 1024 * B
	MiB ByteSize = 1024 * KiB
	GiB ByteSize = 1024 * MiB
	TiB ByteSize = 1024 * GiB
)

// ParseByteSize accepts a plain integer or a number followed by a decimal
// (K, KB, M, MB, ...) or binary (Ki, KiB, Mi, MiB, ...) unit, in any case.
// Integers are parsed exactly; fractional values are truncated to whole
// bytes.
func ParseByteSize(s string) (ByteSize, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty byte size")
	}
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return ByteSize(n), nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}
	return ByteSize(n), nil
}

func (b *ByteSize) UnmarshalText(text []byte) error {
	n, err := ParseByteSize(string(text))
	if err != nil {
		return err
	}
	*b = n
	return nil
}

// UnmarshalYAML accepts any scalar ParseByteSize understands.
func (b *ByteSize) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: byte size must be a scalar", node.Line)
	}
	return b.UnmarshalText([]byte(node.Value))
}

// MarshalText writes the plain byte count.
func (b ByteSize) MarshalText() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(b), 10), nil
}

func (b ByteSize) String() string {
	return humanize.IBytes(uint64(b))
}
