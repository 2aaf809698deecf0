package igv

import (
	"strconv"
	"strings"

	"github.com/inodb/vcf-triage/internal/annotate"
)

const (
	maxFilenameLen    = 80
	maxConsequenceLen = 24
	snapshotExt       = ".png"
	// unsafeFilenameChars are replaced with "_" in snapshot names.
	unsafeFilenameChars = "<>:\"/\\|?* \t"
)

// SanitizeFilename replaces characters that are unsafe in filenames with
// underscores and truncates the result to 80 characters.
func SanitizeFilename(s string) string {
	out := []rune(strings.Map(func(r rune) rune {
		if strings.ContainsRune(unsafeFilenameChars, r) {
			return '_'
		}
		return r
	}, s))
	if len(out) > maxFilenameLen {
		out = out[:maxFilenameLen]
	}
	return string(out)
}

// SnapshotName builds the image filename for a locus:
// [prefix_]chrom_pos[_gene][_consequence].png, where only the first
// "&"-delimited consequence term is used, cut to 24 characters.
func SnapshotName(chrom string, pos int64, gene, consequence, prefix string) string {
	parts := []string{chrom, strconv.FormatInt(pos, 10)}
	if gene != "" {
		parts = append(parts, gene)
	}
	if consequence != "" {
		term := annotate.PrimaryTerm(consequence)
		if r := []rune(term); len(r) > maxConsequenceLen {
			term = string(r[:maxConsequenceLen])
		}
		parts = append(parts, term)
	}

	base := strings.Join(parts, "_")
	if prefix != "" {
		base = prefix + "_" + base
	}
	return SanitizeFilename(base) + snapshotExt
}

// Interval returns the viewing window [max(1, pos-flank), pos+flank].
func Interval(pos int64, flank int) (start, end int64) {
	start = pos - int64(flank)
	if start < 1 {
		start = 1
	}
	return start, pos + int64(flank)
}
