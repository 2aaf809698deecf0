package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vcf-triage/internal/duckdb"
	"github.com/inodb/vcf-triage/internal/output"
)

type queryOptions struct {
	dbPath       string
	gene         string
	outputFormat string
}

func newQueryCmd(a *app) *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query rows exported with filter --duckdb",
		Long: `Query a DuckDB database written by "vcf-triage filter --duckdb".

Without --gene, prints the number of recorded runs and the kept row count per
consequence over all runs. With --gene, prints every stored row for that gene
as a triage table.`,
		Example: `  vcf-triage query --duckdb ~/triage.duckdb
  vcf-triage query --duckdb ~/triage.duckdb --gene KRAS -f tsv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.OutOrStdout(), a.logger, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.dbPath, "duckdb", "", "DuckDB database written by filter --duckdb")
	f.StringVar(&opts.gene, "gene", "", "Print stored rows for this gene symbol")
	f.StringVarP(&opts.outputFormat, "output-format", "f", output.FormatCSV, "Row output format: csv, tsv")

	_ = cmd.MarkFlagRequired("duckdb")

	return cmd
}

func runQuery(w io.Writer, logger *zap.Logger, opts queryOptions) error {
	// Open would create an empty database; a typo should fail instead.
	if _, err := os.Stat(opts.dbPath); err != nil {
		return fmt.Errorf("open duckdb: %w", err)
	}

	store, err := duckdb.Open(opts.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if opts.gene != "" {
		return writeGeneRows(w, logger, store, opts)
	}

	runs, err := store.RunCount()
	if err != nil {
		return err
	}
	counts, err := store.CountByConsequence()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Runs: %d\n", runs)
	if len(counts) > 0 {
		fmt.Fprintln(w, "By consequence:")
		for _, c := range counts {
			fmt.Fprintf(w, "  %s: %d\n", c.Term, c.Count)
		}
	}
	return nil
}

func writeGeneRows(w io.Writer, logger *zap.Logger, store *duckdb.Store, opts queryOptions) error {
	writer, err := output.NewWriter(w, output.FormatFor("", opts.outputFormat))
	if err != nil {
		return err
	}

	rows, err := store.RowsByGene(opts.gene)
	if err != nil {
		return err
	}
	logger.Debug("queried rows by gene",
		zap.String("gene", opts.gene),
		zap.Int("rows", len(rows)))

	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := writer.WriteRow(r); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return writer.Flush()
}
