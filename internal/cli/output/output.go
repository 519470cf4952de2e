// Package output renders dnas command results as tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects how a Printer renders values.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts table, json, yaml and yml in any case. The empty
// string selects def.
func ParseFormat(s string, def Format) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %q (valid: table, json, yaml)", s)
	}
}

// Printer writes values in a fixed format.
type Printer struct {
	out    io.Writer
	format Format
	color  bool
}

// NewPrinter returns a Printer writing to out.
func NewPrinter(out io.Writer, format Format, color bool) *Printer {
	return &Printer{out: out, format: format, color: color}
}

// Format returns the printer's format.
func (p *Printer) Format() Format {
	return p.format
}

// Writer returns the destination writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Print renders v. In table format v must implement TableRenderer; the
// structured formats marshal v directly.
func (p *Printer) Print(v any) error {
	switch p.format {
	case FormatJSON:
		return PrintJSON(p.out, v)
	case FormatYAML:
		return PrintYAML(p.out, v)
	case FormatTable:
		r, ok := v.(TableRenderer)
		if !ok {
			return PrintYAML(p.out, v)
		}
		return PrintTable(p.out, r)
	default:
		return fmt.Errorf("unknown format: %s", p.format)
	}
}

// Success prints msg in green when color is enabled.
func (p *Printer) Success(msg string) {
	p.colored("32", msg)
}

// Warning prints msg in yellow when color is enabled.
func (p *Printer) Warning(msg string) {
	p.colored("33", msg)
}

func (p *Printer) colored(code, msg string) {
	if p.color {
		_, _ = fmt.Fprintf(p.out, "\033[%sm%s\033[0m\n", code, msg)
		return
	}
	_, _ = fmt.Fprintln(p.out, msg)
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintYAML writes v as YAML with two-space indentation.
func PrintYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
