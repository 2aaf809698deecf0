package annotate

import (
	"strings"

	"github.com/inodb/vcf-triage/internal/vcf"
)

// InfoKey is the INFO key carrying VEP-style consequence annotations.
const InfoKey = "ANN"

// Positions of the fields read from a pipe-delimited ANN entry
// (Allele|Consequence|IMPACT|SYMBOL|Gene|Feature_type|Feature|BIOTYPE|EXON|HGVSc|HGVSp|...).
// The order is a convention of the annotating tool and is not described by
// the entry itself.
const (
	annConsequence = 1
	annSymbol      = 3
	annHGVSc       = 9
	annHGVSp       = 10
)

// Fields holds the annotation values taken from the first ANN entry.
// Any of them may be empty.
type Fields struct {
	Gene        string // Gene symbol
	Consequence string // SO consequence term(s), "&"-joined
	HGVSc       string // HGVS coding change (e.g., "c.34G>T")
	HGVSp       string // HGVS protein change (e.g., "p.Gly12Cys")
}

// Extract returns the gene, consequence and HGVS changes of the first
// transcript annotation in info. Missing keys or short entries yield empty
// strings, never an error.
func Extract(info vcf.InfoMap) Fields {
	ann := info.Value(InfoKey)
	if ann == "" {
		return Fields{}
	}

	first, _, _ := strings.Cut(ann, ",")
	parts := strings.Split(first, "|")

	return Fields{
		Gene:        field(parts, annSymbol),
		Consequence: field(parts, annConsequence),
		HGVSc:       field(parts, annHGVSc),
		HGVSp:       field(parts, annHGVSp),
	}
}

func field(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

// Impact returns the highest impact among the consequence terms.
func (f Fields) Impact() string {
	return Impact(f.Consequence)
}
