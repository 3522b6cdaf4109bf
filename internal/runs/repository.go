// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package runs

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-kit/kit/log"
)

type Repository interface {
	Record(run Run) error

	GetRun(runID string) (*Run, error)
	RecentRuns(limit int) ([]*Run, error)
}

func NewRepo(logger log.Logger, db *sql.DB) *sqlRepo {
	return &sqlRepo{logger: logger, db: db}
}

type sqlRepo struct {
	logger log.Logger
	db     *sql.DB
}

// Record writes a Run. It's called outside the hold staging transaction so
// failed runs are kept around too.
func (r *sqlRepo) Record(run Run) error {
	query := `insert into extraction_runs (run_id, input_file, rewritten_file, settlement_file, entries_extracted, holds_staged, hold_failures, settlement_total, report_only, status, error, created_at) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return fmt.Errorf("record run: prepare: %v", err)
	}
	defer stmt.Close()

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = stmt.Exec(run.RunID, run.InputFile, run.RewrittenFile, run.SettlementFile,
		run.EntriesExtracted, run.HoldsStaged, run.HoldFailures, run.SettlementTotal,
		run.ReportOnly, run.Status, run.Error, createdAt)
	if err != nil {
		return fmt.Errorf("record run: runID=%s: %v", run.RunID, err)
	}
	return nil
}

func (r *sqlRepo) GetRun(runID string) (*Run, error) {
	query := `select run_id, input_file, rewritten_file, settlement_file, entries_extracted, holds_staged, hold_failures, settlement_total, report_only, status, error, created_at from extraction_runs where run_id = ? limit 1;`
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	run, err := scanRun(stmt.QueryRow(runID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return run, nil
}

func (r *sqlRepo) RecentRuns(limit int) ([]*Run, error) {
	query := `select run_id, input_file, rewritten_file, settlement_file, entries_extracted, holds_staged, hold_failures, settlement_total, report_only, status, error, created_at from extraction_runs order by created_at desc limit ?;`
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	rows, err := stmt.Query(limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("recent runs: %v", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	err := row.Scan(&run.RunID, &run.InputFile, &run.RewrittenFile, &run.SettlementFile,
		&run.EntriesExtracted, &run.HoldsStaged, &run.HoldFailures, &run.SettlementTotal,
		&run.ReportOnly, &run.Status, &run.Error, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
