package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		def     Format
		want    Format
		wantErr bool
	}{
		{name: "empty selects default", input: "", def: FormatYAML, want: FormatYAML},
		{name: "table", input: "table", def: FormatYAML, want: FormatTable},
		{name: "JSON uppercase", input: "JSON", def: FormatTable, want: FormatJSON},
		{name: "yml alias", input: "yml", def: FormatTable, want: FormatYAML},
		{name: "whitespace trimmed", input: "  json ", def: FormatTable, want: FormatJSON},
		{name: "invalid", input: "xml", def: FormatTable, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input, tt.def)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type volumeRow struct {
	Name string `json:"name" yaml:"name"`
	Used string `json:"used" yaml:"used"`
}

func TestPrinter_StructuredFormats(t *testing.T) {
	row := volumeRow{Name: "tank", Used: "1.0 TiB (10%)"}

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatJSON, false).Print(row))
	assert.Contains(t, buf.String(), `"name": "tank"`)

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatYAML, false).Print(row))
	assert.Contains(t, buf.String(), "name: tank")
	assert.Contains(t, buf.String(), "used: 1.0 TiB (10%)")
}

func TestPrinter_Table(t *testing.T) {
	table := NewTable("ID", "NAME", "TYPE")
	table.AddRow("101", "tank/media", "dataset")
	table.AddRow("104", "tank/vm0", "zvol")

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(table))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "tank/media")
	assert.Contains(t, out, "zvol")
}

func TestPrinter_TableFallsBackToYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(volumeRow{Name: "tank"}))
	assert.Contains(t, buf.String(), "name: tank")
}

func TestPrintKeyValues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintKeyValues(&buf, []KeyValue{
		{Key: "Volumes", Value: "2"},
		{Key: "Disks", Value: "3"},
	}))

	out := buf.String()
	assert.Contains(t, out, "Volumes")
	assert.Contains(t, out, "3")
}

func TestPrinter_Messages(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatTable, false)
	p.Success("imported")
	p.Warning("careful")
	assert.Equal(t, "imported\ncareful\n", buf.String())

	buf.Reset()
	NewPrinter(&buf, FormatTable, true).Success("ok")
	assert.Equal(t, "\033[32mok\033[0m\n", buf.String())
}
