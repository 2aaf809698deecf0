package triage

import "sort"

// Summary aggregates the outcome of a triage run.
type Summary struct {
	Records       int              // records read
	Kept          int              // rows written (one per kept alt allele)
	Dropped       map[Decision]int // records dropped, by first failing predicate
	ByConsequence map[string]int   // rows written, by consequence term
}

// NewSummary returns an empty summary.
func NewSummary() *Summary {
	return &Summary{
		Dropped:       make(map[Decision]int),
		ByConsequence: make(map[string]int),
	}
}

// ConsequenceCount is a consequence term and the number of rows carrying it.
type ConsequenceCount struct {
	Term  string
	Count int
}

// Consequences returns the consequence counts ordered by descending count,
// ties broken by ascending term.
func (s *Summary) Consequences() []ConsequenceCount {
	out := make([]ConsequenceCount, 0, len(s.ByConsequence))
	for term, n := range s.ByConsequence {
		out = append(out, ConsequenceCount{Term: term, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	return out
}

// addRow records one emitted row.
func (s *Summary) addRow(r Row) {
	s.Kept++
	if r.Consequence != "" {
		s.ByConsequence[r.Consequence]++
	}
}
