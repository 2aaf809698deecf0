// Package vcf provides VCF file parsing functionality.
package vcf

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xi2/xz"
	"go.uber.org/zap"
)

// minColumns is the number of fixed VCF columns (CHROM..INFO).
const minColumns = 8

// Reader reads records from a single-sample VCF file.
//
// Data lines are split on runs of whitespace rather than strictly on tabs,
// so hand-written fixtures with space-aligned columns parse the same way.
// Lines that cannot form a record are skipped and counted, never returned
// as errors.
type Reader struct {
	reader      *bufio.Reader
	file        *os.File
	gzipReader  *gzip.Reader
	lineNumber  int
	skipped     int
	header      []string
	sampleNames []string
	logger      *zap.Logger
}

// Open creates a reader for the given path. Files ending in ".gz" are read
// through gzip and files ending in ".xz" through xz; "-" reads stdin.
func Open(path string) (*Reader, error) {
	if path == "-" {
		return NewReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	r := &Reader{file: file, logger: zap.NewNop()}

	switch {
	case strings.HasSuffix(path, ".gz"):
		r.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.reader = bufio.NewReader(r.gzipReader)
	case strings.HasSuffix(path, ".xz"):
		xzReader, err := xz.NewReader(file, 0)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create xz reader: %w", err)
		}
		r.reader = bufio.NewReader(xzReader)
	default:
		r.reader = bufio.NewReader(file)
	}

	return r, nil
}

// NewReader creates a reader from an io.Reader (e.g., stdin or a string).
func NewReader(rd io.Reader) *Reader {
	return &Reader{
		reader: bufio.NewReader(rd),
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger used to report skipped lines.
func (r *Reader) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Next reads the next record from the file.
// Returns nil, nil when there are no more records.
func (r *Reader) Next() (*Record, error) {
	for {
		line, err := r.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read vcf line %d: %w", r.lineNumber+1, err)
		}
		if line == "" && err != nil {
			return nil, nil
		}
		r.lineNumber++

		line = strings.TrimRight(line, "\r\n")

		switch {
		case strings.HasPrefix(line, "##"):
			r.header = append(r.header, line)
			continue
		case strings.HasPrefix(line, "#CHROM"):
			r.header = append(r.header, line)
			if cols := strings.Fields(line); len(cols) > 9 {
				r.sampleNames = cols[9:]
			}
			continue
		case strings.TrimSpace(line) == "":
			continue
		}

		rec, perr := r.parseLine(line)
		if perr != nil {
			r.skipped++
			r.logger.Debug("skipping malformed vcf line",
				zap.Int("line", r.lineNumber),
				zap.String("reason", perr.Message))
			continue
		}
		return rec, nil
	}
}

// parseLine parses a single data line into a Record.
func (r *Reader) parseLine(line string) (*Record, *ParseError) {
	fields := strings.Fields(line)
	if len(fields) < minColumns {
		return nil, &ParseError{
			Line:    r.lineNumber,
			Message: fmt.Sprintf("expected at least %d columns, found %d", minColumns, len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || pos <= 0 {
		return nil, &ParseError{
			Line:    r.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[1]),
		}
	}

	var qual *float64
	if fields[5] != MissingValue {
		q, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, &ParseError{
				Line:    r.lineNumber,
				Message: fmt.Sprintf("invalid quality: %s", fields[5]),
			}
		}
		qual = &q
	}

	filter := fields[6]
	if filter == MissingValue {
		filter = FilterPass
	}

	rec := &Record{
		Chrom:  fields[0],
		Pos:    pos,
		ID:     fields[2],
		Ref:    fields[3],
		Alt:    strings.Split(fields[4], ","),
		Qual:   qual,
		Filter: filter,
		Info:   parseInfo(fields[7]),
	}

	// Only the first sample column is used.
	if len(fields) > 9 {
		rec.Sample = parseSample(fields[8], fields[9])
	}

	return rec, nil
}

// Header returns the "##" meta lines and the "#CHROM" line seen so far.
func (r *Reader) Header() []string {
	return r.header
}

// SampleNames returns sample names from the #CHROM header line.
// Returns nil if no sample columns are present.
func (r *Reader) SampleNames() []string {
	return r.sampleNames
}

// LineNumber returns the current line number being processed.
func (r *Reader) LineNumber() int {
	return r.lineNumber
}

// Skipped returns the number of malformed data lines skipped so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

// Close closes the reader and underlying file.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// ParseError describes why a VCF line could not be turned into a record.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
