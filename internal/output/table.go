// Package output provides triage report formatters.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/inodb/vcf-triage/internal/triage"
)

// Columns is the fixed report header.
var Columns = []string{
	"chrom",
	"pos",
	"ref",
	"alt",
	"gene",
	"consequence",
	"hgvs_c",
	"hgvs_p",
	"af",
	"gt",
	"dp",
	"ab",
	"filters",
}

// Output formats.
const (
	FormatCSV = "csv"
	FormatTSV = "tsv"
)

// TableWriter writes triage rows as a delimited table.
type TableWriter struct {
	w *csv.Writer
}

// NewTableWriter creates a writer using delim as the field separator.
func NewTableWriter(w io.Writer, delim rune) *TableWriter {
	cw := csv.NewWriter(w)
	cw.Comma = delim
	return &TableWriter{w: cw}
}

// NewCSVWriter creates a comma-delimited writer.
func NewCSVWriter(w io.Writer) *TableWriter {
	return NewTableWriter(w, ',')
}

// NewTSVWriter creates a tab-delimited writer.
func NewTSVWriter(w io.Writer) *TableWriter {
	return NewTableWriter(w, '\t')
}

// NewWriter creates a writer for the named format.
func NewWriter(w io.Writer, format string) (*TableWriter, error) {
	switch format {
	case FormatCSV:
		return NewCSVWriter(w), nil
	case FormatTSV:
		return NewTSVWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// FormatFor returns override when set, otherwise picks the format from the
// output path: ".tsv" and ".txt" are tab-delimited, everything else is CSV.
func FormatFor(path, override string) string {
	if override != "" {
		return strings.ToLower(override)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".txt":
		return FormatTSV
	default:
		return FormatCSV
	}
}

// WriteHeader writes the header line.
func (tw *TableWriter) WriteHeader() error {
	return tw.w.Write(Columns)
}

// WriteRow writes a single triage row.
func (tw *TableWriter) WriteRow(r triage.Row) error {
	return tw.w.Write([]string{
		r.Chrom,
		strconv.FormatInt(r.Pos, 10),
		r.Ref,
		r.Alt,
		r.Gene,
		r.Consequence,
		r.HGVSc,
		r.HGVSp,
		formatOptional(r.AF),
		r.GT,
		strconv.Itoa(r.DP),
		formatOptional(r.AB),
		r.Filter,
	})
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TableWriter) Flush() error {
	tw.w.Flush()
	return tw.w.Error()
}

// formatOptional renders an absent value as "" and a present one in its
// shortest decimal form.
func formatOptional(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
