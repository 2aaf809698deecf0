// Package igv generates IGV batch scripts that step through triaged loci.
package igv

import (
	"errors"
	"fmt"
)

// Defaults for batch generation.
const (
	DefaultGenome = "GRCh38"
	DefaultFlank  = 100
)

// ErrAlignmentSource is returned when neither or both of BAM and BAMColumn are set.
var ErrAlignmentSource = errors.New("exactly one of a single alignment file or an alignment column is required")

// Options configures batch script generation.
type Options struct {
	Genome         string // genome identifier passed to "genome"
	BAM            string // alignment file loaded once for all loci
	BAMColumn      string // table column holding a per-row alignment path
	Flank          int    // bp added on each side of the position
	SnapshotDir    string // when set, a snapshot is taken at every locus
	SnapshotPrefix string // optional snapshot filename prefix
	Delimiter      rune   // table delimiter; 0 detects it from the content
}

// DefaultOptions returns options with the default genome and flank.
func DefaultOptions() Options {
	return Options{
		Genome: DefaultGenome,
		Flank:  DefaultFlank,
	}
}

// Validate checks the options before any input is read or output written.
func (o Options) Validate() error {
	if (o.BAM == "") == (o.BAMColumn == "") {
		return ErrAlignmentSource
	}
	if o.Genome == "" {
		return errors.New("genome is required")
	}
	if o.Flank < 0 {
		return fmt.Errorf("flank must be non-negative, got %d", o.Flank)
	}
	return nil
}
