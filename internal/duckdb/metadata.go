package duckdb

import (
	"fmt"
	"os"
	"time"
)

// StdinPath is the input path that reads the VCF from standard input.
const StdinPath = "-"

// FileFingerprint records which input a triage run read.
type FileFingerprint struct {
	Path    string
	Size    int64     // 0 for stdin
	ModTime time.Time // zero for stdin
}

// IsStdin returns true if the run read standard input.
func (f FileFingerprint) IsStdin() bool {
	return f.Path == StdinPath
}

// String returns the path with its size, e.g. "in.vcf (2048 bytes)".
func (f FileFingerprint) String() string {
	if f.IsStdin() {
		return "<stdin>"
	}
	return fmt.Sprintf("%s (%d bytes)", f.Path, f.Size)
}

// StatFile fingerprints the VCF input at path. "-" yields a stdin
// fingerprint without touching the filesystem.
func StatFile(path string) (FileFingerprint, error) {
	if path == StdinPath {
		return FileFingerprint{Path: path}, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return FileFingerprint{}, fmt.Errorf("stat input: %s is a directory", path)
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}
