package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vcf-triage/internal/triage"
)

func ptr(f float64) *float64 { return &f }

func TestTableWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	assert.Equal(t, "chrom,pos,ref,alt,gene,consequence,hgvs_c,hgvs_p,af,gt,dp,ab,filters\n", buf.String())
}

func TestTableWriter_WriteRow(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteRow(triage.Row{
		Chrom: "1", Pos: 1000, Ref: "A", Alt: "G",
		Gene: "GENE1", Consequence: "missense_variant",
		HGVSc: "c.100A>G", HGVSp: "p.Lys34Glu",
		AF: ptr(0.001), GT: "0/1", DP: 20, AB: ptr(0.5), Filter: "PASS",
	}))
	require.NoError(t, w.WriteRow(triage.Row{
		Chrom: "2", Pos: 5, Ref: "C", Alt: "T", GT: "1/1", DP: 12, Filter: "q10;LowQual",
	}))
	require.NoError(t, w.Flush())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"1", "1000", "A", "G", "GENE1", "missense_variant", "c.100A>G", "p.Lys34Glu", "0.001", "0/1", "20", "0.5", "PASS"}, records[1])
	assert.Equal(t, []string{"2", "5", "C", "T", "", "", "", "", "", "1/1", "12", "", "q10;LowQual"}, records[2])
}

func TestTableWriter_TSV(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatTSV)
	require.NoError(t, err)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteRow(triage.Row{Chrom: "X", Pos: 7, Ref: "A", Alt: "T", Consequence: "a,b", DP: 3}))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(Columns, "\t"), lines[0])
	assert.Equal(t, "X\t7\tA\tT\t\ta,b\t\t\t\t\t3\t\t", lines[1])

	_, err = NewWriter(&buf, "xlsx")
	assert.Error(t, err)
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path, override, want string
	}{
		{"out.csv", "", FormatCSV},
		{"out.tsv", "", FormatTSV},
		{"OUT.TXT", "", FormatTSV},
		{"out", "", FormatCSV},
		{"out.csv", "TSV", FormatTSV},
	}
	for _, tt := range tests {
		t.Run(tt.path+"/"+tt.override, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFor(tt.path, tt.override))
		})
	}
}
