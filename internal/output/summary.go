package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/inodb/vcf-triage/internal/triage"
)

// WriteSummary writes the plain-text run summary: the kept row count, then
// one line per consequence term ordered by descending count.
func WriteSummary(w io.Writer, s *triage.Summary) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Kept variants: %d\n", s.Kept)

	counts := s.Consequences()
	if len(counts) > 0 {
		fmt.Fprintln(bw, "By consequence:")
		for _, c := range counts {
			fmt.Fprintf(bw, "  %s: %d\n", c.Term, c.Count)
		}
	}

	return bw.Flush()
}
