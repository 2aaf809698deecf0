package igv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/csimplestring/go-csv/detector"
	"go.uber.org/zap"
)

// Column name variants accepted for each locus field, in lookup order.
var (
	chromColumns       = []string{"chrom", "CHROM"}
	posColumns         = []string{"pos", "POS"}
	geneColumns        = []string{"gene", "GENE"}
	consequenceColumns = []string{"consequence", "Consequences", "CONSEQUENCE"}
)

// Locus is one table row as seen by the batch generator.
type Locus struct {
	Chrom       string
	Pos         int64
	Gene        string
	Consequence string
	BAM         string // per-row alignment path, if configured
}

// Generator turns a locus table into an IGV batch script.
type Generator struct {
	opts   Options
	logger *zap.Logger
}

// NewGenerator creates a generator with the given options.
func NewGenerator(opts Options) *Generator {
	return &Generator{
		opts:   opts,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger used to report skipped rows.
func (g *Generator) SetLogger(l *zap.Logger) {
	g.logger = l
}

// Generate reads the table at tablePath and writes the batch script to
// outPath. It returns the number of loci written. The script is written even
// when no row is usable. The snapshot directory, if any, is created only
// once the table has been read.
func (g *Generator) Generate(tablePath, outPath string) (int, error) {
	if err := g.opts.Validate(); err != nil {
		return 0, err
	}

	data, err := os.ReadFile(tablePath)
	if err != nil {
		return 0, fmt.Errorf("read locus table: %w", err)
	}

	lines, n, err := g.Build(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}

	if g.opts.SnapshotDir != "" {
		if err := os.MkdirAll(g.opts.SnapshotDir, 0755); err != nil {
			return 0, fmt.Errorf("create snapshot directory: %w", err)
		}
	}

	script := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(outPath, []byte(script), 0644); err != nil {
		return 0, fmt.Errorf("write batch script: %w", err)
	}

	g.logger.Info("wrote batch script",
		zap.String("path", outPath),
		zap.Int("loci", n))

	return n, nil
}

// Build reads a locus table from r and returns the script lines and the
// number of loci they navigate to.
func (g *Generator) Build(r io.Reader) ([]string, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("read locus table: %w", err)
	}

	rows, err := readTable(data, g.opts.Delimiter)
	if err != nil {
		return nil, 0, err
	}

	lines := []string{
		"new",
		"genome " + g.opts.Genome,
	}
	if len(rows) == 0 {
		return lines, 0, nil
	}

	if g.opts.BAM != "" {
		lines = append(lines, "load "+g.opts.BAM)
	}
	if g.opts.SnapshotDir != "" {
		lines = append(lines, "snapshotDirectory "+g.opts.SnapshotDir)
	}

	count := 0
	for i, row := range rows {
		locus, ok := g.parseLocus(row)
		if !ok {
			g.logger.Debug("skipping malformed locus row", zap.Int("row", i+1))
			continue
		}

		if locus.BAM != "" {
			lines = append(lines, "load "+locus.BAM)
		}

		start, end := Interval(locus.Pos, g.opts.Flank)
		lines = append(lines, fmt.Sprintf("goto %s:%d-%d", locus.Chrom, start, end))

		if g.opts.SnapshotDir != "" {
			name := SnapshotName(locus.Chrom, locus.Pos, locus.Gene, locus.Consequence, g.opts.SnapshotPrefix)
			lines = append(lines, "snapshot "+name)
		}

		count++
	}

	return lines, count, nil
}

// parseLocus extracts a locus from a row. ok is false when the chromosome
// is empty or the position is not a positive integer.
func (g *Generator) parseLocus(row map[string]string) (Locus, bool) {
	chrom := lookup(row, chromColumns)
	posStr := lookup(row, posColumns)
	if chrom == "" || !isDigits(posStr) {
		return Locus{}, false
	}
	pos, err := strconv.ParseInt(posStr, 10, 64)
	if err != nil || pos <= 0 {
		return Locus{}, false
	}

	l := Locus{Chrom: chrom, Pos: pos}
	if g.opts.BAMColumn != "" {
		l.BAM = strings.TrimSpace(row[g.opts.BAMColumn])
	}
	if g.opts.SnapshotDir != "" {
		l.Gene = lookup(row, geneColumns)
		l.Consequence = lookup(row, consequenceColumns)
	}
	return l, true
}

// lookup returns the trimmed value of the first non-empty column among names.
func lookup(row map[string]string, names []string) string {
	for _, n := range names {
		if v := row[n]; v != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// readTable parses a delimited table with a header line into one map per
// data row. Missing trailing cells read as "".
func readTable(data []byte, delim rune) ([]map[string]string, error) {
	if delim == 0 {
		delim = DetectDelimiter(bytes.NewReader(data))
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read table header: %w", err)
	}

	var rows []map[string]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read table row: %w", err)
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// tableDelimiters are the delimiters DetectDelimiter may return.
const tableDelimiters = ",\t;|"

// DetectDelimiter returns the most likely field delimiter of a CSV-like
// stream. When the detector has no usable candidate, the first delimiter
// found in the header line wins, and a comma is the default.
func DetectDelimiter(r io.Reader) rune {
	var header bytes.Buffer
	d := detector.New()
	for _, c := range d.DetectDelimiter(io.TeeReader(r, &header), '"') {
		if c != "" && strings.ContainsRune(tableDelimiters, rune(c[0])) {
			return rune(c[0])
		}
	}

	first, _, _ := strings.Cut(header.String(), "\n")
	if i := strings.IndexAny(first, tableDelimiters); i >= 0 {
		return rune(first[i])
	}
	return ','
}
