// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/moov-io/onus/internal/database"
	"github.com/moov-io/onus/internal/holds"
	"github.com/moov-io/onus/internal/pipeline/audittrail"
	"github.com/moov-io/onus/internal/pipeline/notify"
	"github.com/moov-io/onus/internal/runs"
	"github.com/moov-io/onus/pkg/config"
	"github.com/moov-io/onus/pkg/settlement"
	"github.com/moov-io/onus/pkg/stream"

	"github.com/go-kit/kit/log"
)

const (
	testRouting  = "231380104"
	otherRouting = "121042882"
)

func fileHeader() string {
	line := "101 231380104 1210428822006151200A094101Federal Reserve Bank   My Bank                "
	return line + strings.Repeat(" ", 94-len(line))
}

func batchHeader() string {
	return fmt.Sprintf("5%3s%-16s%-20s%-10s%-3s%-10s%-6s%-6s%3s%1s%-8s%07d",
		"200", "MY COMPANY", "", "121042882", "PPD", "TRANSFER", "200615", "200616", "", "1", "12104288", 1)
}

func entryDetail(code, routing, account string, amount int, addendaIndicator, trace string) string {
	return fmt.Sprintf("6%2s%9s%-17s%010d%-15s%-22s%2s%1s%15s",
		code, routing, account, amount, "ID123", "JANE DOE", "", addendaIndicator, trace)
}

func addenda(info, entrySeq string) string {
	return fmt.Sprintf("705%-80s%04d%7s", info, 1, entrySeq)
}

func batchControl() string {
	return fmt.Sprintf("8%s%06d%010d%012d%012d%s%s%07d",
		"200", 0, 0, 0, 0, "121042882", strings.Repeat(" ", 26), "12104288", 1)
}

func fileControl() string {
	return fmt.Sprintf("9%06d%06d%08d%010d%012d%012d%s", 1, 1, 0, 0, 0, 0, strings.Repeat(" ", 39))
}

// paymentFile has two marked on-us credits and one foreign credit which
// needs to pass through untouched.
func paymentFile() []byte {
	lines := []string{
		fileHeader(),
		batchHeader(),
		entryDetail("22", testRouting, "7534210001", 50000, "1", "121042880000001"),
		addenda("EXT OAO funds transfer", "0000001"),
		entryDetail("22", otherRouting, "987654", 25000, "0", "121042880000002"),
		entryDetail("32", testRouting, "7534210002", 30000, "1", "121042880000003"),
		addenda("EXT OAO savings opening", "0000003"),
		batchControl(),
		fileControl(),
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}

type testEnv struct {
	processor *Processor

	db  *database.TestSQLiteDB
	dir string

	auditStorage *audittrail.MockStorage
	notifier     *notify.MockSender
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	db := database.CreateTestSqliteDB(t)

	dir, err := ioutil.TempDir("", "pipeline-test")
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Empty()
	cfg.Extraction.RoutingNumber = testRouting
	cfg.Settlement.GLAccountNumber = "817151617"
	cfg.Settlement.CashBoxNumber = "90"
	cfg.Output.Directory = dir

	logger := log.NewNopLogger()
	auditStorage := &audittrail.MockStorage{}
	notifier := &notify.MockSender{}

	processor := &Processor{
		logger:       logger,
		cfg:          cfg,
		holds:        holds.NewRepo(logger, db.DB, cfg.Holds, nil),
		runs:         runs.NewRepo(logger, db.DB),
		auditStorage: auditStorage,
		notifier:     notifier,
	}
	processor.EffectiveDate = "20200616"

	return &testEnv{
		processor:    processor,
		db:           db,
		dir:          dir,
		auditStorage: auditStorage,
		notifier:     notifier,
	}
}

func (env *testEnv) close() {
	env.db.Close()
	os.RemoveAll(env.dir)
}

func (env *testEnv) stagedHolds(t *testing.T) int {
	t.Helper()
	var count int
	if err := env.db.DB.QueryRow(`select count(*) from ach_holds;`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	return count
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	bs, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(bs)
}

func TestProcessor(t *testing.T) {
	env := setup(t)
	defer env.close()

	run, err := env.processor.Process(context.Background(), "PPD20200615.ach", paymentFile())
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != runs.Success {
		t.Errorf("status: %v (%s)", run.Status, run.Error)
	}
	if run.EntriesExtracted != 2 {
		t.Errorf("entries extracted: %d", run.EntriesExtracted)
	}
	if run.HoldsStaged != 2 || run.HoldFailures != 0 {
		t.Errorf("holds: staged=%d failures=%d", run.HoldsStaged, run.HoldFailures)
	}
	if run.SettlementTotal != 80000 {
		t.Errorf("settlement total: %d", run.SettlementTotal)
	}

	// Our entries and their addenda are gone from the rewritten file while
	// the foreign entry stays.
	rewritten := readFile(t, run.RewrittenFile)
	if strings.Contains(rewritten, "7534210001") || strings.Contains(rewritten, "EXT OAO") {
		t.Errorf("on-us entries left in rewritten file:\n%s", rewritten)
	}
	if !strings.Contains(rewritten, "987654") {
		t.Errorf("foreign entry missing from rewritten file:\n%s", rewritten)
	}

	lines := strings.Split(strings.TrimSuffix(readFile(t, run.SettlementFile), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d settlement lines", len(lines))
	}
	for i := range lines {
		if n := len(lines[i]); n != settlement.LineLength {
			t.Errorf("settlement line %d is %d characters", i, n)
		}
	}
	if !strings.Contains(lines[0], "DEPD") || !strings.Contains(lines[0], "0000050000") {
		t.Errorf("first settlement line: %q", lines[0])
	}
	if last := lines[2]; !strings.Contains(last, "GLD") || !strings.Contains(last, "0000080000") {
		t.Errorf("ledger offset line: %q", last)
	}

	if count := env.stagedHolds(t); count != 2 {
		t.Errorf("got %d staged holds", count)
	}

	saved, err := env.processor.runs.GetRun(run.RunID)
	if err != nil || saved == nil {
		t.Fatalf("run not recorded: %v", err)
	}
	if saved.Status != runs.Success {
		t.Errorf("recorded status: %v", saved.Status)
	}

	if !env.notifier.InfoWasCalled() || env.notifier.CriticalWasCalled() {
		t.Error("expected an info notification")
	}
	if msg := env.notifier.CapturedMessage(); msg.EntriesExtracted != 2 || msg.Filename != "PPD20200615.ach" {
		t.Errorf("notification: %#v", msg)
	}

	// input plus both outputs
	if copies := env.auditStorage.SavedFilenames(); len(copies) != 3 {
		t.Errorf("audit copies: %v", copies)
	}
}

func TestProcessor__reportOnly(t *testing.T) {
	env := setup(t)
	defer env.close()

	env.processor.cfg.Extraction.ReportOnly = true

	run, err := env.processor.Process(context.Background(), "PPD20200615.ach", paymentFile())
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != runs.Success || !run.ReportOnly {
		t.Errorf("status=%v reportOnly=%v", run.Status, run.ReportOnly)
	}
	if run.HoldsStaged != 0 {
		t.Errorf("holds staged: %d", run.HoldsStaged)
	}
	if count := env.stagedHolds(t); count != 0 {
		t.Errorf("got %d staged holds", count)
	}

	// both files are still written so operators can review the dry run
	if lines := strings.Split(strings.TrimSuffix(readFile(t, run.SettlementFile), "\n"), "\n"); len(lines) != 3 {
		t.Errorf("got %d settlement lines", len(lines))
	}
	if rewritten := readFile(t, run.RewrittenFile); strings.Contains(rewritten, "EXT OAO") {
		t.Errorf("on-us entries left in rewritten file:\n%s", rewritten)
	}
}

func TestProcessor__extractFailure(t *testing.T) {
	env := setup(t)
	defer env.close()

	// candidate pending when the file ends
	contents := []byte(strings.Join([]string{
		fileHeader(),
		batchHeader(),
		entryDetail("22", testRouting, "7534210001", 50000, "1", "121042880000001"),
	}, "\n") + "\n")

	run, err := env.processor.Process(context.Background(), "bad.ach", contents)
	if err == nil {
		t.Fatal("expected error")
	}
	if run.Status != runs.Failed {
		t.Errorf("status: %v", run.Status)
	}
	if !strings.Contains(run.Error, "extract") {
		t.Errorf("run error: %q", run.Error)
	}
	if count := env.stagedHolds(t); count != 0 {
		t.Errorf("got %d staged holds", count)
	}

	saved, err := env.processor.runs.GetRun(run.RunID)
	if err != nil || saved == nil {
		t.Fatalf("run not recorded: %v", err)
	}
	if saved.Status != runs.Failed {
		t.Errorf("recorded status: %v", saved.Status)
	}

	if !env.notifier.CriticalWasCalled() {
		t.Error("expected a critical notification")
	}
}

// A hold which can't be staged doesn't stop the run. The entry still
// settles and the failure is counted.
func TestProcessor__holdFailure(t *testing.T) {
	env := setup(t)
	defer env.close()

	// duplicate trace numbers trip the unique index on staged holds
	lines := []string{
		fileHeader(),
		batchHeader(),
		entryDetail("22", testRouting, "7534210001", 50000, "1", "121042880000001"),
		addenda("EXT OAO funds transfer", "0000001"),
		entryDetail("22", testRouting, "7534210002", 30000, "1", "121042880000001"),
		addenda("EXT OAO funds transfer", "0000002"),
		batchControl(),
		fileControl(),
	}
	contents := []byte(strings.Join(lines, "\n") + "\n")

	run, err := env.processor.Process(context.Background(), "PPD20200615.ach", contents)
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != runs.Success {
		t.Errorf("status: %v (%s)", run.Status, run.Error)
	}
	if run.HoldsStaged != 1 || run.HoldFailures != 1 {
		t.Errorf("holds: staged=%d failures=%d", run.HoldsStaged, run.HoldFailures)
	}
	if run.SettlementTotal != 80000 {
		t.Errorf("settlement total: %d", run.SettlementTotal)
	}
	if count := env.stagedHolds(t); count != 1 {
		t.Errorf("got %d staged holds", count)
	}

	// the failed hold's entry still settles
	if lines := strings.Split(strings.TrimSuffix(readFile(t, run.SettlementFile), "\n"), "\n"); len(lines) != 3 {
		t.Errorf("got %d settlement lines", len(lines))
	}
}

func TestProcessor__events(t *testing.T) {
	env := setup(t)
	defer env.close()

	env.processor.cfg.Pipeline.Stream = &config.StreamPipeline{
		InMem: &config.InMemPipeline{URL: "mem://extractions"},
	}

	processor, err := NewProcessor(env.processor.cfg, env.processor.holds, env.processor.runs)
	if err != nil {
		t.Fatal(err)
	}
	defer processor.Close()
	processor.EffectiveDate = "20200616"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sub, err := stream.Subscription(ctx, "mem://extractions")
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Shutdown(ctx)

	run, err := processor.Process(ctx, "PPD20200615.ach", paymentFile())
	if err != nil {
		t.Fatal(err)
	}

	msg, err := sub.Receive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	msg.Ack()

	if msg.Metadata["runID"] != run.RunID || msg.Metadata["status"] != "success" {
		t.Errorf("metadata: %#v", msg.Metadata)
	}
	var event runs.Run
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		t.Fatal(err)
	}
	if event.RunID != run.RunID || event.EntriesExtracted != 2 {
		t.Errorf("event: %#v", event)
	}
}

func TestOutputFilenames(t *testing.T) {
	if v := rewrittenFilename("PPD20200615.ach"); v != "PPD20200615.out.ach" {
		t.Errorf("got %q", v)
	}
	if v := rewrittenFilename("payments"); v != "payments.out.ach" {
		t.Errorf("got %q", v)
	}
	if v := settlementFilename("PPD20200615.ach"); v != "PPD20200615.settlement.txt" {
		t.Errorf("got %q", v)
	}
	if v := settlementFilename("payments"); v != "payments.settlement.txt" {
		t.Errorf("got %q", v)
	}
}
