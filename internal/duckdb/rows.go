package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vcf-triage/internal/triage"
)

// RunInfo describes one triage run.
type RunInfo struct {
	Input     FileFingerprint
	Config    triage.Config
	Records   int
	Kept      int
	CreatedAt time.Time
}

// RecordRun stores a run and returns its id. Ids increase from 1.
func (s *Store) RecordRun(info RunInfo) (int64, error) {
	var id int64
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(run_id), 0) + 1 FROM triage_runs`).Scan(&id); err != nil {
		return 0, fmt.Errorf("next run id: %w", err)
	}

	created := info.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	cfg := info.Config
	if _, err := s.db.Exec(`INSERT INTO triage_runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, info.Input.Path, info.Input.Size, info.Input.ModTime,
		cfg.MinDepth, cfg.MinQual, cfg.MaxAF, cfg.IncludeNonPass, len(cfg.Genes),
		info.Records, info.Kept, created,
	); err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	return id, nil
}

// WriteRows batch-inserts the kept rows of a run using the Appender API.
func (s *Store) WriteRows(runID int64, rows []triage.Row) error {
	if len(rows) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "triage_rows")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range rows {
		if err := appender.AppendRow(
			runID, r.Chrom, r.Pos, r.Ref, r.Alt,
			r.Gene, r.Consequence, r.HGVSc, r.HGVSp,
			nullable(r.AF), r.GT, int32(r.DP), nullable(r.AB), r.Filter,
		); err != nil {
			return fmt.Errorf("append triage row: %w", err)
		}
	}

	return appender.Flush()
}

// CountByConsequence returns row counts per consequence over all runs,
// ordered by descending count then ascending term.
func (s *Store) CountByConsequence() ([]triage.ConsequenceCount, error) {
	rows, err := s.db.Query(`SELECT consequence, COUNT(*) AS n
		FROM triage_rows
		WHERE consequence <> ''
		GROUP BY consequence
		ORDER BY n DESC, consequence ASC`)
	if err != nil {
		return nil, fmt.Errorf("query consequence counts: %w", err)
	}
	defer rows.Close()

	var counts []triage.ConsequenceCount
	for rows.Next() {
		var c triage.ConsequenceCount
		if err := rows.Scan(&c.Term, &c.Count); err != nil {
			return nil, fmt.Errorf("scan consequence count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consequence counts: %w", err)
	}
	return counts, nil
}

// RowsByGene returns all stored rows for a gene, ordered by run and position.
func (s *Store) RowsByGene(gene string) ([]triage.Row, error) {
	rows, err := s.db.Query(`SELECT
		chrom, pos, ref, alt, gene, consequence, hgvs_c, hgvs_p,
		af, gt, dp, ab, filters
		FROM triage_rows
		WHERE gene=?
		ORDER BY run_id, chrom, pos, alt`, gene)
	if err != nil {
		return nil, fmt.Errorf("query by gene: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// RunCount returns the number of recorded runs.
func (s *Store) RunCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM triage_runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// scanRows scans result rows into triage rows.
func scanRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]triage.Row, error) {
	var results []triage.Row
	for rows.Next() {
		var r triage.Row
		var af, ab sql.NullFloat64
		var dp int32

		if err := rows.Scan(
			&r.Chrom, &r.Pos, &r.Ref, &r.Alt, &r.Gene, &r.Consequence, &r.HGVSc, &r.HGVSp,
			&af, &r.GT, &dp, &ab, &r.Filter,
		); err != nil {
			return nil, fmt.Errorf("scan triage row: %w", err)
		}

		r.DP = int(dp)
		if af.Valid {
			r.AF = &af.Float64
		}
		if ab.Valid {
			r.AB = &ab.Float64
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate triage rows: %w", err)
	}
	return results, nil
}

// nullable converts an optional value for the appender; nil appends NULL.
func nullable(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
