package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vcf-triage/internal/duckdb"
	"github.com/inodb/vcf-triage/internal/output"
	"github.com/inodb/vcf-triage/internal/triage"
	"github.com/inodb/vcf-triage/internal/vcf"
)

type filterOptions struct {
	vcfPath      string
	outPath      string
	genesPath    string
	summaryPath  string
	outputFormat string
	duckdbPath   string
}

func newFilterCmd(a *app) *cobra.Command {
	var opts filterOptions

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter a single-sample VCF into a triage table",
		Long: `Filter a single-sample VCF and write one table row per alternate allele of
every record that passes:

  - FILTER is PASS (unless --include-nonpass)
  - QUAL >= --min-qual (missing QUAL counts as 0)
  - INFO AF < --max-af, when AF is present
  - sample DP >= --min-dp
  - heterozygous (0/1, 1/0) allele balance from AD within [0.3, 0.7]
  - gene from the first ANN entry is in --genes, when given`,
		Example: `  vcf-triage filter --vcf sample.vcf --out triage.csv
  vcf-triage filter --vcf sample.vcf.gz --out triage.tsv --genes keep_genes.txt --summary summary.txt
  vcf-triage filter --vcf sample.vcf --out triage.csv --duckdb ~/triage.duckdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, a.logger, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.vcfPath, "vcf", "", "Input .vcf, .vcf.gz or .vcf.xz file ('-' for stdin)")
	f.StringVarP(&opts.outPath, "out", "o", "", "Output table path")
	f.Int("min-dp", triage.DefaultMinDepth, "Minimum sample depth (DP) to keep a site")
	f.Float64("min-qual", triage.DefaultMinQual, "Minimum QUAL to keep a site")
	f.Float64("max-af", triage.DefaultMaxAF, "Maximum population allele frequency (INFO AF), when present")
	f.Bool("include-nonpass", false, "Include sites where FILTER is not PASS")
	f.StringVar(&opts.genesPath, "genes", "", "File of gene symbols to keep (one per line)")
	f.StringVar(&opts.summaryPath, "summary", "", "Write a text summary to this path")
	f.StringVarP(&opts.outputFormat, "output-format", "f", "", "Output format: csv, tsv (default: from --out extension)")
	f.StringVar(&opts.duckdbPath, "duckdb", "", "Also append kept rows to this DuckDB database")

	_ = cmd.MarkFlagRequired("vcf")
	_ = cmd.MarkFlagRequired("out")

	_ = viper.BindPFlag("filter.min_dp", f.Lookup("min-dp"))
	_ = viper.BindPFlag("filter.min_qual", f.Lookup("min-qual"))
	_ = viper.BindPFlag("filter.max_af", f.Lookup("max-af"))
	_ = viper.BindPFlag("filter.include_nonpass", f.Lookup("include-nonpass"))

	return cmd
}

// filterConfig builds the triage thresholds from flags, config file and
// environment, loading the gene allowlist when one is given.
func filterConfig(genesPath string) (triage.Config, error) {
	cfg := triage.Config{
		MinDepth:       viper.GetInt("filter.min_dp"),
		MinQual:        viper.GetFloat64("filter.min_qual"),
		MaxAF:          viper.GetFloat64("filter.max_af"),
		IncludeNonPass: viper.GetBool("filter.include_nonpass"),
	}

	if genesPath != "" {
		genes, err := triage.LoadGeneSet(genesPath)
		if err != nil {
			return cfg, err
		}
		cfg.Genes = genes
	}
	return cfg, nil
}

func runFilter(cmd *cobra.Command, logger *zap.Logger, opts filterOptions) error {
	cfg, err := filterConfig(opts.genesPath)
	if err != nil {
		return err
	}

	format := output.FormatFor(opts.outPath, opts.outputFormat)
	if format != output.FormatCSV && format != output.FormatTSV {
		return fmt.Errorf("unknown output format %q", opts.outputFormat)
	}

	reader, err := vcf.Open(opts.vcfPath)
	if err != nil {
		return err
	}
	defer reader.Close()
	reader.SetLogger(logger)

	out, err := os.Create(opts.outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	writer, err := output.NewWriter(out, format)
	if err != nil {
		return err
	}
	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	var sink triage.RowSink = writer
	var buffered triage.RowBuffer
	if opts.duckdbPath != "" {
		sink = triage.MultiSink{writer, &buffered}
	}

	engine := triage.NewEngine(cfg)
	engine.SetLogger(logger)

	summary, err := engine.Run(reader, sink)
	if err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}

	logger.Debug("read vcf header",
		zap.Int("lines", len(reader.Header())),
		zap.Strings("samples", reader.SampleNames()))
	if samples := reader.SampleNames(); len(samples) > 1 {
		logger.Warn("multi-sample vcf; only the first sample is used",
			zap.String("sample", samples[0]),
			zap.Int("samples", len(samples)))
	}

	if reader.Skipped() > 0 {
		logger.Info("skipped malformed lines", zap.Int("count", reader.Skipped()))
	}

	if opts.summaryPath != "" {
		if err := writeSummaryFile(opts.summaryPath, summary); err != nil {
			return err
		}
	}

	if opts.duckdbPath != "" {
		if err := exportRun(opts.duckdbPath, opts.vcfPath, cfg, summary, buffered.Rows); err != nil {
			return err
		}
		logger.Info("exported rows to duckdb",
			zap.String("path", opts.duckdbPath),
			zap.Stringer("input", fingerprintOf(opts.vcfPath)),
			zap.Int("rows", len(buffered.Rows)))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Kept %d variants; wrote %s\n", summary.Kept, opts.outPath)
	return nil
}

func writeSummaryFile(path string, summary *triage.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer f.Close()

	if err := output.WriteSummary(f, summary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return f.Close()
}

// exportRun appends the run and its rows to a DuckDB database.
func exportRun(dbPath, vcfPath string, cfg triage.Config, summary *triage.Summary, rows []triage.Row) error {
	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	input, err := duckdb.StatFile(vcfPath)
	if err != nil {
		return err
	}

	runID, err := store.RecordRun(duckdb.RunInfo{
		Input:     input,
		Config:    cfg,
		Records:   summary.Records,
		Kept:      summary.Kept,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	return store.WriteRows(runID, rows)
}

// fingerprintOf describes the input for log messages, falling back to the
// bare path when it cannot be stat'ed.
func fingerprintOf(path string) duckdb.FileFingerprint {
	fp, err := duckdb.StatFile(path)
	if err != nil {
		return duckdb.FileFingerprint{Path: path}
	}
	return fp
}
