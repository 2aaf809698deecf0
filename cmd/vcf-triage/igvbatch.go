package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vcf-triage/internal/igv"
)

type igvBatchOptions struct {
	csvPath   string
	outPath   string
	delimiter string
	opts      igv.Options
}

func newIGVBatchCmd(a *app) *cobra.Command {
	var o igvBatchOptions

	cmd := &cobra.Command{
		Use:   "igv-batch",
		Short: "Generate an IGV batch script from a triage table",
		Long: `Generate an IGV batch script that loads alignments and navigates to every
locus in a triage table. The table needs at least chrom and pos columns
(upper-case names are accepted too); gene and consequence are used for
snapshot names when present.

The script is only written, never run. In IGV desktop use
Tools > Run Batch Script and select the generated file.`,
		Example: `  # Single BAM for all rows
  vcf-triage igv-batch --csv triage.csv --bam /path/to/sample.bam --out igv_batch.txt

  # Per-row BAM/CRAM path stored in a table column
  vcf-triage igv-batch --csv triage.csv --bam-col bam_path --out igv_batch.txt

  # Save a PNG per locus
  vcf-triage igv-batch --csv triage.csv --bam sample.bam --snapshot-dir shots --snapshot-prefix demo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.opts.Genome = viper.GetString("igv.genome")
			o.opts.Flank = viper.GetInt("igv.flank")

			delim, err := parseDelimiter(o.delimiter)
			if err != nil {
				return err
			}
			o.opts.Delimiter = delim

			if err := o.opts.Validate(); err != nil {
				return err
			}

			g := igv.NewGenerator(o.opts)
			g.SetLogger(a.logger)

			n, err := g.Generate(o.csvPath, o.outPath)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d loci to %s\n", n, o.outPath)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.csvPath, "csv", "", "Triage table (must have chrom,pos)")
	f.StringVarP(&o.outPath, "out", "o", "igv_batch.txt", "Output IGV batch file")
	f.String("genome", igv.DefaultGenome, "Genome ID to use in IGV (e.g., GRCh37, GRCh38)")
	f.StringVar(&o.opts.BAM, "bam", "", "Single BAM/CRAM to load for all loci")
	f.StringVar(&o.opts.BAMColumn, "bam-col", "", "Table column that holds a BAM/CRAM path per row")
	f.Int("flank", igv.DefaultFlank, "bp padding around POS")
	f.StringVar(&o.opts.SnapshotDir, "snapshot-dir", "", "Directory for IGV snapshots")
	f.StringVar(&o.opts.SnapshotPrefix, "snapshot-prefix", "", "Prefix for snapshot filenames")
	f.StringVar(&o.delimiter, "delimiter", "auto", "Table delimiter: auto, comma, tab, or a single character")

	_ = cmd.MarkFlagRequired("csv")
	cmd.MarkFlagsMutuallyExclusive("bam", "bam-col")
	cmd.MarkFlagsOneRequired("bam", "bam-col")

	_ = viper.BindPFlag("igv.genome", f.Lookup("genome"))
	_ = viper.BindPFlag("igv.flank", f.Lookup("flank"))

	return cmd
}

// parseDelimiter maps the --delimiter flag to a rune; 0 means auto-detect.
func parseDelimiter(s string) (rune, error) {
	switch s {
	case "", "auto":
		return 0, nil
	case "comma":
		return ',', nil
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
