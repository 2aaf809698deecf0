// Package triage filters VCF records by quality heuristics and projects the
// survivors into report rows.
package triage

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Default thresholds.
const (
	DefaultMinDepth = 10
	DefaultMinQual  = 30.0
	DefaultMaxAF    = 0.01
)

// Heterozygote allele balance must fall within [MinAlleleBalance, MaxAlleleBalance].
const (
	MinAlleleBalance = 0.3
	MaxAlleleBalance = 0.7
)

// Config holds the thresholds for one triage run.
type Config struct {
	MinDepth       int     // Minimum sample DP
	MinQual        float64 // Minimum QUAL; absent QUAL counts as 0
	MaxAF          float64 // Records with INFO AF >= MaxAF are dropped
	IncludeNonPass bool    // Keep records whose FILTER is not PASS
	Genes          GeneSet // Optional allowlist; nil disables the check
}

// DefaultConfig returns the default thresholds with no gene allowlist.
func DefaultConfig() Config {
	return Config{
		MinDepth: DefaultMinDepth,
		MinQual:  DefaultMinQual,
		MaxAF:    DefaultMaxAF,
	}
}

// GeneSet is a set of gene symbols.
type GeneSet map[string]struct{}

// NewGeneSet builds a set from the given symbols.
func NewGeneSet(genes ...string) GeneSet {
	s := make(GeneSet, len(genes))
	for _, g := range genes {
		s[g] = struct{}{}
	}
	return s
}

// Contains returns true if gene is in the set.
func (s GeneSet) Contains(gene string) bool {
	_, ok := s[gene]
	return ok
}

// LoadGeneSet reads a gene allowlist with one symbol per line.
// Surrounding whitespace is trimmed and blank lines are ignored.
func LoadGeneSet(path string) (GeneSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gene list: %w", err)
	}
	defer f.Close()

	genes := make(GeneSet)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		g := strings.TrimSpace(scanner.Text())
		if g == "" {
			continue
		}
		genes[g] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading gene list: %w", err)
	}

	return genes, nil
}
