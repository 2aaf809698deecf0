package triage

import (
	"strconv"
	"strings"

	"github.com/inodb/vcf-triage/internal/annotate"
	"github.com/inodb/vcf-triage/internal/vcf"
)

// Decision is the outcome of evaluating a record. Drop decisions name the
// first predicate that failed.
type Decision string

// Decisions in predicate order.
const (
	Keep              Decision = "keep"
	DropNonPass       Decision = "non_pass"
	DropQual          Decision = "low_qual"
	DropAF            Decision = "high_af"
	DropDepth         Decision = "low_depth"
	DropAlleleBalance Decision = "allele_balance"
	DropGene          Decision = "gene_not_allowed"
)

// Kept returns true for the Keep decision.
func (d Decision) Kept() bool {
	return d == Keep
}

// Metrics holds the per-record values used both for filtering and for output.
type Metrics struct {
	Qual float64  // QUAL, 0 when absent
	AF   *float64 // INFO AF, nil when absent or unparsable
	DP   int      // sample DP, 0 when absent or unparsable
	GT   string   // sample GT
	AB   *float64 // allele balance, nil when not computable
}

// Measure extracts the filtering metrics from a record.
func Measure(rec *vcf.Record) Metrics {
	m := Metrics{
		Qual: rec.QualOrZero(),
		GT:   rec.Sample.Value("GT"),
	}

	if raw := rec.Info.Value("AF"); raw != "" {
		if af, err := strconv.ParseFloat(raw, 64); err == nil {
			m.AF = &af
		}
	}

	if raw := rec.Sample.Value("DP"); raw != "" {
		if dp, err := strconv.Atoi(raw); err == nil {
			m.DP = dp
		}
	}

	if ab, ok := AlleleBalance(rec.Sample); ok {
		m.AB = &ab
	}

	return m
}

// Evaluate applies the filter predicates in order and returns the first
// failing one, or Keep. The metrics are returned regardless of the outcome.
func Evaluate(rec *vcf.Record, fields annotate.Fields, cfg Config) (Decision, Metrics) {
	m := Measure(rec)

	switch {
	case !cfg.IncludeNonPass && !rec.IsPass():
		return DropNonPass, m
	case m.Qual < cfg.MinQual:
		return DropQual, m
	case m.AF != nil && *m.AF >= cfg.MaxAF:
		return DropAF, m
	case m.DP < cfg.MinDepth:
		return DropDepth, m
	case IsHet(m.GT) && m.AB != nil && (*m.AB < MinAlleleBalance || *m.AB > MaxAlleleBalance):
		return DropAlleleBalance, m
	case cfg.Genes != nil && (fields.Gene == "" || !cfg.Genes.Contains(fields.Gene)):
		return DropGene, m
	}

	return Keep, m
}

// IsHet returns true for an unphased heterozygous genotype ("0/1" or "1/0").
func IsHet(gt string) bool {
	return gt == "0/1" || gt == "1/0"
}

// AlleleBalance computes alt/(ref+alt) from the first two AD values,
// rounded to 3 decimals with exact halves going to the even digit
// (5/16 is 0.312). ok is false when AD is absent, has fewer than two
// integer values, or sums to zero.
func AlleleBalance(sample vcf.SampleFields) (ab float64, ok bool) {
	ad := sample.Value("AD")
	if ad == "" {
		return 0, false
	}

	parts := strings.Split(ad, ",")
	if len(parts) < 2 {
		return 0, false
	}
	ref, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	alt, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}

	total := ref + alt
	if total == 0 {
		return 0, false
	}

	// FormatFloat rounds the exact binary value, so 1401,599 (0.29949...)
	// stays below 0.3.
	ab, err = strconv.ParseFloat(strconv.FormatFloat(float64(alt)/float64(total), 'f', 3, 64), 64)
	if err != nil {
		return 0, false
	}
	return ab, true
}
