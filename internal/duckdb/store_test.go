package duckdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vcf-triage/internal/triage"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr(f float64) *float64 { return &f }

func sampleRows() []triage.Row {
	return []triage.Row{
		{
			Chrom: "12", Pos: 25245350, Ref: "C", Alt: "A",
			Gene: "KRAS", Consequence: "missense_variant",
			HGVSc: "c.35G>T", HGVSp: "p.Gly12Val",
			AF: ptr(0.001), GT: "0/1", DP: 40, AB: ptr(0.45), Filter: "PASS",
		},
		{
			Chrom: "12", Pos: 25245350, Ref: "C", Alt: "T",
			Gene: "KRAS", Consequence: "missense_variant",
			GT: "1/2", DP: 40, Filter: "PASS",
		},
		{
			Chrom: "17", Pos: 7675088, Ref: "C", Alt: "T",
			Gene: "TP53", Consequence: "stop_gained",
			GT: "0/1", DP: 25, AB: ptr(0.52), Filter: "PASS",
		},
		{
			Chrom: "1", Pos: 100, Ref: "A", Alt: "G", GT: "1/1", DP: 12, Filter: "PASS",
		},
	}
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	n, err := s.RunCount()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "triage.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.FileExists(t, path)
}

func TestRecordRun(t *testing.T) {
	s := openInMemory(t)

	cfg := triage.DefaultConfig()
	cfg.Genes = triage.NewGeneSet("KRAS", "TP53")

	id, err := s.RecordRun(RunInfo{
		Input:     FileFingerprint{Path: "sample.vcf", Size: 123, ModTime: time.Unix(1700000000, 0)},
		Config:    cfg,
		Records:   10,
		Kept:      4,
		CreatedAt: time.Unix(1700000100, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id, err = s.RecordRun(RunInfo{Config: triage.DefaultConfig()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	n, err := s.RunCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var path string
	var genes, kept int
	require.NoError(t, s.db.QueryRow(
		`SELECT input_path, gene_count, kept FROM triage_runs WHERE run_id = 1`).Scan(&path, &genes, &kept))
	assert.Equal(t, "sample.vcf", path)
	assert.Equal(t, 2, genes)
	assert.Equal(t, 4, kept)
}

func TestWriteRowsAndRowsByGene(t *testing.T) {
	s := openInMemory(t)

	require.NoError(t, s.WriteRows(1, sampleRows()))

	rows, err := s.RowsByGene("KRAS")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "A", rows[0].Alt)
	assert.Equal(t, "p.Gly12Val", rows[0].HGVSp)
	assert.Equal(t, 40, rows[0].DP)
	require.NotNil(t, rows[0].AF)
	assert.Equal(t, 0.001, *rows[0].AF)
	require.NotNil(t, rows[0].AB)
	assert.Equal(t, 0.45, *rows[0].AB)

	assert.Equal(t, "T", rows[1].Alt)
	assert.Nil(t, rows[1].AF)
	assert.Nil(t, rows[1].AB)

	rows, err = s.RowsByGene("BRCA1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWriteRowsEmpty(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteRows(1, nil))

	counts, err := s.CountByConsequence()
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestCountByConsequence(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteRows(1, sampleRows()))
	require.NoError(t, s.WriteRows(2, sampleRows()[2:3]))

	counts, err := s.CountByConsequence()
	require.NoError(t, err)
	assert.Equal(t, []triage.ConsequenceCount{
		{Term: "missense_variant", Count: 2},
		{Term: "stop_gained", Count: 2},
	}, counts)
}

func TestStatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.vcf")
	require.NoError(t, os.WriteFile(path, []byte("##fileformat=VCFv4.2\n"), 0644))

	fp, err := StatFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, fp.Path)
	assert.Equal(t, int64(21), fp.Size)
	assert.False(t, fp.ModTime.IsZero())

	assert.Equal(t, path+" (21 bytes)", fp.String())
	assert.False(t, fp.IsStdin())

	_, err = StatFile(filepath.Join(t.TempDir(), "missing.vcf"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = StatFile(t.TempDir())
	assert.Error(t, err)

	fp, err = StatFile("-")
	require.NoError(t, err)
	assert.True(t, fp.IsStdin())
	assert.Equal(t, "<stdin>", fp.String())
}
