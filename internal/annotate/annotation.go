// Package annotate extracts functional annotations from VCF INFO fields.
package annotate

import "strings"

// Impact levels for variant consequences.
const (
	ImpactHigh     = "HIGH"
	ImpactModerate = "MODERATE"
	ImpactLow      = "LOW"
	ImpactModifier = "MODIFIER"
)

// termImpact maps Sequence Ontology terms to their impact. Terms not listed
// are MODIFIER.
var termImpact = map[string]string{
	"stop_gained":             ImpactHigh,
	"frameshift_variant":      ImpactHigh,
	"stop_lost":               ImpactHigh,
	"start_lost":              ImpactHigh,
	"splice_acceptor_variant": ImpactHigh,
	"splice_donor_variant":    ImpactHigh,

	"missense_variant":  ImpactModerate,
	"inframe_insertion": ImpactModerate,
	"inframe_deletion":  ImpactModerate,
	"inframe_variant":   ImpactModerate,

	"synonymous_variant":      ImpactLow,
	"splice_region_variant":   ImpactLow,
	"stop_retained_variant":   ImpactLow,
	"start_retained_variant":  ImpactLow,
	"coding_sequence_variant": ImpactLow,
}

// Impact returns the most severe impact among the "&" (or ",") joined
// consequence terms.
func Impact(consequence string) string {
	best := ImpactModifier
	for rest := consequence; rest != ""; {
		term := rest
		if i := strings.IndexAny(rest, "&,"); i >= 0 {
			term, rest = rest[:i], rest[i+1:]
		} else {
			rest = ""
		}
		if impact, ok := termImpact[term]; ok && ImpactRank(impact) > ImpactRank(best) {
			best = impact
		}
	}
	return best
}

// ImpactRank orders impacts; higher is more severe.
func ImpactRank(impact string) int {
	switch impact {
	case ImpactHigh:
		return 3
	case ImpactModerate:
		return 2
	case ImpactLow:
		return 1
	default:
		return 0
	}
}

// PrimaryTerm returns the first "&"-delimited term of a consequence string.
func PrimaryTerm(consequence string) string {
	term, _, _ := strings.Cut(consequence, "&")
	return term
}
