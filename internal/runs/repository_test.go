// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package runs

import (
	"testing"
	"time"

	"github.com/moov-io/onus/internal/database"

	"github.com/go-kit/kit/log"
	"github.com/moov-io/base"
)

func TestRuns__record(t *testing.T) {
	db := database.CreateTestSqliteDB(t)
	defer db.Close()

	repo := NewRepo(log.NewNopLogger(), db.DB)

	runID := base.ID()
	err := repo.Record(Run{
		RunID:            runID,
		InputFile:        "20200616-103436.ach",
		RewrittenFile:    "20200616-103436.out.ach",
		SettlementFile:   "20200616-103436.settlement.txt",
		EntriesExtracted: 2,
		HoldsStaged:      2,
		SettlementTotal:  131500,
		Status:           Success,
	})
	if err != nil {
		t.Fatal(err)
	}

	run, err := repo.GetRun(runID)
	if err != nil {
		t.Fatal(err)
	}
	if run == nil {
		t.Fatal("run not found")
	}
	if run.InputFile != "20200616-103436.ach" || run.Status != Success {
		t.Errorf("run=%#v", run)
	}
	if run.EntriesExtracted != 2 || run.SettlementTotal != 131500 {
		t.Errorf("run=%#v", run)
	}
	if run.ReportOnly {
		t.Error("unexpected report-only run")
	}
	if run.CreatedAt.IsZero() {
		t.Error("missing createdAt")
	}
}

func TestRuns__notFound(t *testing.T) {
	db := database.CreateTestSqliteDB(t)
	defer db.Close()

	repo := NewRepo(log.NewNopLogger(), db.DB)

	run, err := repo.GetRun(base.ID())
	if err != nil {
		t.Fatal(err)
	}
	if run != nil {
		t.Errorf("unexpected run: %#v", run)
	}
}

func TestRuns__recent(t *testing.T) {
	db := database.CreateTestSqliteDB(t)
	defer db.Close()

	repo := NewRepo(log.NewNopLogger(), db.DB)

	first := Run{
		RunID:     base.ID(),
		InputFile: "20200615-090211.ach",
		Status:    Failed,
		Error:     "extract: line 3: record type 6: invalid amount",
		CreatedAt: time.Now().Add(-1 * time.Hour),
	}
	second := Run{
		RunID:      base.ID(),
		InputFile:  "20200616-103436.ach",
		ReportOnly: true,
		Status:     Success,
		CreatedAt:  time.Now(),
	}
	if err := repo.Record(first); err != nil {
		t.Fatal(err)
	}
	if err := repo.Record(second); err != nil {
		t.Fatal(err)
	}

	runs, err := repo.RecentRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs", len(runs))
	}
	// newest first
	if runs[0].RunID != second.RunID {
		t.Errorf("runs[0]=%#v", runs[0])
	}
	if !runs[0].ReportOnly {
		t.Error("expected report-only run")
	}
	if runs[1].Error != first.Error {
		t.Errorf("runs[1]=%#v", runs[1])
	}

	runs, err = repo.RecentRuns(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs", len(runs))
	}
}
