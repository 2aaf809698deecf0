package triage

import (
	"github.com/inodb/vcf-triage/internal/annotate"
	"github.com/inodb/vcf-triage/internal/vcf"
)

// Row is one output line: a kept record projected onto a single alternate allele.
type Row struct {
	Chrom       string
	Pos         int64
	Ref         string
	Alt         string
	Gene        string
	Consequence string
	HGVSc       string
	HGVSp       string
	AF          *float64 // nil when absent
	GT          string
	DP          int
	AB          *float64 // nil when not computable
	Filter      string
}

// Expand returns one row per alternate allele, in ALT order. All rows share
// the record's annotation and metrics.
func Expand(rec *vcf.Record, fields annotate.Fields, m Metrics) []Row {
	rows := make([]Row, 0, len(rec.Alt))
	for _, alt := range rec.Alt {
		rows = append(rows, Row{
			Chrom:       rec.Chrom,
			Pos:         rec.Pos,
			Ref:         rec.Ref,
			Alt:         alt,
			Gene:        fields.Gene,
			Consequence: fields.Consequence,
			HGVSc:       fields.HGVSc,
			HGVSp:       fields.HGVSp,
			AF:          m.AF,
			GT:          m.GT,
			DP:          m.DP,
			AB:          m.AB,
			Filter:      rec.Filter,
		})
	}
	return rows
}

// RowSink receives kept rows.
type RowSink interface {
	WriteRow(r Row) error
}

// MultiSink fans each row out to several sinks in order.
type MultiSink []RowSink

// WriteRow writes r to every sink, stopping at the first error.
func (m MultiSink) WriteRow(r Row) error {
	for _, s := range m {
		if err := s.WriteRow(r); err != nil {
			return err
		}
	}
	return nil
}

// RowBuffer collects rows in memory.
type RowBuffer struct {
	Rows []Row
}

// WriteRow appends r to the buffer.
func (b *RowBuffer) WriteRow(r Row) error {
	b.Rows = append(b.Rows, r)
	return nil
}
