package bytesize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseByteSize(t *testing.T) {
	valid := map[string]ByteSize{
		"0":                    0,
		"4096":                 4096,
		"18446744073709551615": ByteSize(^uint64(0)),
		"512B":                 512,
		"1Ki":                  KiB,
		"1KiB":                 KiB,
		"16Mi":                 16 * MiB,
		"16mib":                16 * MiB,
		"2GI":                  2 * GiB,
		"3TiB":                 3 * TiB,
		"1K":                   KB,
		"100MB":                100 * MB,
		"1g":                   GB,
		"4TB":                  4 * TB,
		"1 Gi":                 GiB,
		"  64Mi  ":             64 * MiB,
		"1.5Mi":                MiB + 512*KiB,
		"0.5Gi":                512 * MiB,
	}
	for in, want := range valid {
		got, err := ParseByteSize(in)
		if assert.NoError(t, err, in) {
			assert.Equal(t, want, got, in)
		}
	}

	for _, in := range []string{"", "   ", "1Xi", "-1Gi", "Gi", "abc", "16 M i"} {
		_, err := ParseByteSize(in)
		assert.Error(t, err, in)
	}
}

func TestByteSize_String(t *testing.T) {
	tests := map[ByteSize]string{
		512:                  "512 B",
		2 * KiB:              "2.0 KiB",
		100 * MiB:            "100 MiB",
		GiB + 512*MiB:        "1.5 GiB",
		2 * TiB:              "2.0 TiB",
		ByteSize(4000000000): "3.7 GiB",
	}
	for in, want := range tests {
		assert.Equal(t, want, in.String())
	}
}

func TestByteSize_YAML(t *testing.T) {
	var pool struct {
		Total ByteSize `yaml:"total"`
		Used  ByteSize `yaml:"used"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("total: 10Gi\nused: 4096\n"), &pool))
	assert.Equal(t, 10*GiB, pool.Total)
	assert.Equal(t, ByteSize(4096), pool.Used)

	assert.ErrorContains(t, yaml.Unmarshal([]byte("total: [1, 2]\n"), &pool), "line 1")
	assert.Error(t, yaml.Unmarshal([]byte("total: lots\n"), &pool))

	out, err := yaml.Marshal(struct {
		Size ByteSize `yaml:"size"`
	}{3 * MiB})
	require.NoError(t, err)
	assert.Equal(t, "size: \"3145728\"\n", string(out))
}

func TestByteSize_TextRoundTrip(t *testing.T) {
	text, err := (3 * MiB).MarshalText()
	require.NoError(t, err)
	var back ByteSize
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, 3*MiB, back)
}
