package igv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "triage.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGenerate_SingleBAM(t *testing.T) {
	table := writeTable(t, "chrom,pos,gene,consequence\n1,1000,GENE1,missense_variant\n")
	out := filepath.Join(t.TempDir(), "igv_batch.txt")
	shots := filepath.Join(t.TempDir(), "shots")

	opts := DefaultOptions()
	opts.BAM = "/x/sample.bam"
	opts.Flank = 50
	opts.SnapshotDir = shots
	opts.SnapshotPrefix = "demo"
	opts.Delimiter = ','

	n, err := NewGenerator(opts).Generate(table, out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"new",
		"genome GRCh38",
		"load /x/sample.bam",
		"snapshotDirectory " + shots,
		"goto 1:950-1050",
		"snapshot demo_1_1000_GENE1_missense_variant.png",
	}, "\n")+"\n", string(got))
	assert.DirExists(t, shots)
}

func TestGenerate_BAMColumn(t *testing.T) {
	table := writeTable(t, "chrom,pos,gene,consequence,bam_path\n1,2000,GENE2,synonymous_variant,/x/sample2.cram\n")
	out := filepath.Join(t.TempDir(), "igv_batch.txt")

	opts := DefaultOptions()
	opts.BAMColumn = "bam_path"
	opts.Flank = 25
	opts.Delimiter = ','

	n, err := NewGenerator(opts).Generate(table, out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	txt := string(got)
	assert.Contains(t, txt, "load /x/sample2.cram\ngoto 1:1975-2025\n")
	assert.NotContains(t, txt, "snapshot")
}

func TestGenerate_InvalidOptions(t *testing.T) {
	table := writeTable(t, "chrom,pos\n1,100\n")
	out := filepath.Join(t.TempDir(), "igv_batch.txt")

	tests := []struct {
		name string
		opts Options
	}{
		{"neither alignment source", DefaultOptions()},
		{"both alignment sources", Options{Genome: "GRCh38", BAM: "a.bam", BAMColumn: "bam"}},
		{"negative flank", Options{Genome: "GRCh38", BAM: "a.bam", Flank: -1}},
		{"no genome", Options{BAM: "a.bam"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(tt.opts).Generate(table, out)
			require.Error(t, err)
			assert.NoFileExists(t, out)
		})
	}
}

func TestGenerate_MissingTable(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "igv_batch.txt")

	_, err := NewGenerator(Options{Genome: "GRCh38", BAM: "a.bam"}).Generate(filepath.Join(dir, "none.csv"), out)
	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestGenerate_MissingTableLeavesNoSnapshotDir(t *testing.T) {
	dir := t.TempDir()
	shots := filepath.Join(dir, "shots")
	out := filepath.Join(dir, "igv_batch.txt")

	opts := Options{Genome: "GRCh38", BAM: "a.bam", SnapshotDir: shots}
	_, err := NewGenerator(opts).Generate(filepath.Join(dir, "none.csv"), out)
	require.Error(t, err)
	assert.NoDirExists(t, shots)
	assert.NoFileExists(t, out)
}

func TestGenerate_EmptyTable(t *testing.T) {
	for name, content := range map[string]string{
		"header only": "chrom,pos\n",
		"empty file":  "",
	} {
		t.Run(name, func(t *testing.T) {
			table := writeTable(t, content)
			out := filepath.Join(t.TempDir(), "igv_batch.txt")

			n, err := NewGenerator(Options{Genome: "hg19", BAM: "a.bam", Delimiter: ','}).Generate(table, out)
			require.NoError(t, err)
			assert.Equal(t, 0, n)

			got, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Equal(t, "new\ngenome hg19\n", string(got))
		})
	}
}

func TestBuild_SkipsMalformedRows(t *testing.T) {
	table := strings.Join([]string{
		"CHROM,POS,GENE",
		"1,100,A",
		",200,B",     // empty chrom
		"2,,C",       // empty pos
		"3,abc,D",    // non-numeric pos
		"4,-5,E",     // sign is not a digit
		"5,0,F",      // not positive
		"6,1.5,G",    // not an integer
		"X, 300 ,H",  // surrounding space is trimmed
		"7",          // short row
	}, "\n")

	opts := Options{Genome: "GRCh38", BAM: "a.bam", Flank: 10, Delimiter: ','}
	lines, n, err := NewGenerator(opts).Build(strings.NewReader(table))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{
		"new",
		"genome GRCh38",
		"load a.bam",
		"goto 1:90-110",
		"goto X:290-310",
	}, lines)
}

func TestBuild_PerRowBAMOnlyWhenPresent(t *testing.T) {
	table := "chrom\tpos\tbam\n1\t100\t/a.bam\n1\t200\t\n1\t300\t /c.bam \n"

	opts := Options{Genome: "GRCh38", BAMColumn: "bam", Flank: 0, Delimiter: '\t'}
	lines, n, err := NewGenerator(opts).Build(strings.NewReader(table))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{
		"new",
		"genome GRCh38",
		"load /a.bam",
		"goto 1:100-100",
		"goto 1:200-200",
		"load /c.bam",
		"goto 1:300-300",
	}, lines)
}

func TestBuild_DetectsDelimiter(t *testing.T) {
	table := strings.Join([]string{
		"chrom\tpos\tref\talt",
		"1\t1000\tA\tG",
		"2\t2000\tC\tT",
		"3\t3000\tG\tA",
	}, "\n") + "\n"

	opts := Options{Genome: "GRCh38", BAM: "s.bam", Flank: 100}
	lines, n, err := NewGenerator(opts).Build(strings.NewReader(table))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Contains(t, lines, "goto 2:1900-2100")
}

func TestBuild_SnapshotPerLocus(t *testing.T) {
	table := strings.Join([]string{
		"chrom,pos,GENE,Consequences",
		"chr1,100,BRCA1,splice_region_variant&intron_variant",
		"chr2,200,,",
	}, "\n")

	opts := Options{Genome: "GRCh38", BAM: "s.bam", Flank: 5, SnapshotDir: "shots", Delimiter: ','}
	lines, n, err := NewGenerator(opts).Build(strings.NewReader(table))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{
		"new",
		"genome GRCh38",
		"load s.bam",
		"snapshotDirectory shots",
		"goto chr1:95-105",
		"snapshot chr1_100_BRCA1_splice_region_variant.png",
		"goto chr2:195-205",
		"snapshot chr2_200.png",
	}, lines)
}
