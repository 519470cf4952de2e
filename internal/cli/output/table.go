package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// TableRenderer is implemented by results that can print as a table.
type TableRenderer interface {
	Headers() []string
	Rows() [][]string
}

// Table is an ad-hoc TableRenderer.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable returns an empty table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends one row.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *Table) Headers() []string { return t.headers }
func (t *Table) Rows() [][]string  { return t.rows }

// PrintTable writes r as a borderless, left-aligned table.
func PrintTable(w io.Writer, r TableRenderer) error {
	table := newPlainWriter(w, "")
	table.SetHeader(r.Headers())
	table.SetAutoFormatHeaders(true)
	table.AppendBulk(r.Rows())
	table.Render()
	return nil
}

// KeyValue is one line of a PrintKeyValues listing.
type KeyValue struct {
	Key   string
	Value string
}

// PrintKeyValues writes pairs as "key: value" lines with aligned values.
func PrintKeyValues(w io.Writer, pairs []KeyValue) error {
	table := newPlainWriter(w, ":")
	table.SetAutoFormatHeaders(false)
	for _, kv := range pairs {
		table.Append([]string{kv.Key, kv.Value})
	}
	table.Render()
	return nil
}

func newPlainWriter(w io.Writer, columnSeparator string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator(columnSeparator)
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}
