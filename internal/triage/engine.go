package triage

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vcf-triage/internal/annotate"
	"github.com/inodb/vcf-triage/internal/vcf"
)

// Engine runs the filter chain over a record stream.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// NewEngine creates an engine with the given thresholds.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for per-record debug and run-level info messages.
func (e *Engine) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Run reads every record from reader, writes the rows of kept records to
// sink and returns the run summary.
func (e *Engine) Run(reader vcf.RecordReader, sink RowSink) (*Summary, error) {
	summary := NewSummary()

	for {
		rec, err := reader.Next()
		if err != nil {
			return summary, fmt.Errorf("read record: %w", err)
		}
		if rec == nil {
			break
		}
		summary.Records++

		fields := annotate.Extract(rec.Info)
		decision, metrics := Evaluate(rec, fields, e.cfg)
		if !decision.Kept() {
			summary.Dropped[decision]++
			e.logger.Debug("dropped record",
				zap.String("chrom", rec.Chrom),
				zap.Int64("pos", rec.Pos),
				zap.String("reason", string(decision)))
			continue
		}

		e.logger.Debug("kept record",
			zap.String("chrom", rec.Chrom),
			zap.Int64("pos", rec.Pos),
			zap.String("gene", fields.Gene),
			zap.String("impact", fields.Impact()),
			zap.Int("alleles", len(rec.Alt)))

		for _, row := range Expand(rec, fields, metrics) {
			if err := sink.WriteRow(row); err != nil {
				return summary, fmt.Errorf("write row %s:%d: %w", row.Chrom, row.Pos, err)
			}
			summary.addRow(row)
		}
	}

	e.logger.Info("triage complete",
		zap.Int("records", summary.Records),
		zap.Int("kept_rows", summary.Kept),
		zap.Any("dropped", summary.Dropped))

	return summary, nil
}
