// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package pipeline runs payment files through on-us extraction end to end.
// A run parses the file, writes the rewritten payment file, renders the
// settlement file, and stages account holds inside one database
// transaction. Stages fail fast and roll back staged holds, but output
// files already written stay on disk for operators to inspect.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/moov-io/onus/internal/holds"
	"github.com/moov-io/onus/internal/pipeline/audittrail"
	"github.com/moov-io/onus/internal/pipeline/notify"
	"github.com/moov-io/onus/internal/runs"
	"github.com/moov-io/onus/pkg/config"
	"github.com/moov-io/onus/pkg/model"
	"github.com/moov-io/onus/pkg/nacha"
	"github.com/moov-io/onus/pkg/settlement"
	"github.com/moov-io/onus/pkg/stream"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics/prometheus"
	"github.com/moov-io/base"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"gocloud.dev/pubsub"
	"gocloud.dev/pubsub/kafkapubsub"
)

var (
	filesProcessed = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Name: "payment_files_processed",
		Help: "Counter of payment files processed for on-us extraction",
	}, []string{"status"})

	entriesExtracted = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Name: "entries_extracted",
		Help: "Counter of on-us entries pulled from payment files",
	}, []string{"transaction_code"})

	holdsStaged = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Name: "holds_staged",
		Help: "Counter of account holds staged for extracted entries",
	}, []string{"code"})

	holdFailures = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Name: "hold_failures",
		Help: "Counter of account holds which could not be staged",
	}, []string{"code"})

	runFailures = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Name: "run_failures",
		Help: "Counter of extraction runs which failed, by stage",
	}, []string{"stage"})
)

// Processor runs payment files through extraction one at a time. Callers
// hand it file contents (from disk or an ODFI server) and get back the
// recorded Run.
type Processor struct {
	logger log.Logger
	cfg    *config.Config

	holds holds.Repository
	runs  runs.Repository

	auditStorage audittrail.Storage
	notifier     notify.Sender
	eventTopic   *pubsub.Topic

	// EffectiveDate is stamped on settlement lines as the posting date.
	// Empty means the next banking day.
	EffectiveDate string
}

func NewProcessor(cfg *config.Config, holdRepo holds.Repository, runRepo runs.Repository) (*Processor, error) {
	auditStorage, err := audittrail.NewStorage(cfg.Pipeline.AuditTrail)
	if err != nil {
		return nil, fmt.Errorf("pipeline: audit trail: %v", err)
	}
	notifier, err := notify.NewMultiSender(cfg.Logger, cfg.Pipeline.Notifications)
	if err != nil {
		return nil, fmt.Errorf("pipeline: notifications: %v", err)
	}
	eventTopic, err := openTopic(cfg.Pipeline.Stream)
	if err != nil {
		return nil, fmt.Errorf("pipeline: stream: %v", err)
	}
	return &Processor{
		logger:       cfg.Logger,
		cfg:          cfg,
		holds:        holdRepo,
		runs:         runRepo,
		auditStorage: auditStorage,
		notifier:     notifier,
		eventTopic:   eventTopic,
	}, nil
}

func openTopic(cfg *config.StreamPipeline) (*pubsub.Topic, error) {
	switch {
	case cfg == nil:
		return nil, nil
	case cfg.InMem != nil:
		return stream.Topic(context.Background(), cfg.InMem.URL)
	case cfg.Kafka != nil:
		return stream.KafkaTopic(cfg.Kafka.Brokers, kafkapubsub.MinimalConfig(), cfg.Kafka.Topic, nil)
	}
	return nil, errors.New("unknown stream config")
}

func (p *Processor) Close() error {
	if p == nil {
		return nil
	}
	if err := p.auditStorage.Close(); err != nil {
		return err
	}
	if p.eventTopic != nil {
		return p.eventTopic.Shutdown(context.Background())
	}
	return nil
}

// stageError tags a failure with the stage it happened in so metrics and
// run records can say where processing stopped.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string {
	return fmt.Sprintf("%s: %v", e.stage, e.err)
}

func failedStage(stage string, err error) error {
	return &stageError{stage: stage, err: err}
}

// ProcessFile reads one payment file off disk and processes it.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*runs.Run, error) {
	contents, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read %s: %v", path, err)
	}
	return p.Process(ctx, filepath.Base(path), contents)
}

// Process runs one payment file through extraction. The returned Run is
// always recorded, even when processing failed partway through.
func (p *Processor) Process(ctx context.Context, filename string, contents []byte) (*runs.Run, error) {
	run := &runs.Run{
		RunID:      base.ID(),
		InputFile:  filename,
		ReportOnly: p.cfg.Extraction.ReportOnly,
		CreatedAt:  time.Now(),
	}
	p.logger.Log("pipeline", fmt.Sprintf("starting run %s over %s", run.RunID, filename))

	p.saveAuditCopy(filename, contents)

	err := p.processRun(ctx, run, contents)
	if err != nil {
		run.Status = runs.Failed
		run.Error = err.Error()
		filesProcessed.With("status", "failed").Add(1)

		stage := "unknown"
		var se *stageError
		if errors.As(err, &se) {
			stage = se.stage
		}
		runFailures.With("stage", stage).Add(1)
		p.logger.Log("pipeline", fmt.Sprintf("run %s failed: %v", run.RunID, err))
	} else {
		run.Status = runs.Success
		filesProcessed.With("status", "success").Add(1)
		p.logger.Log("pipeline", fmt.Sprintf("run %s finished: %d entries extracted, %d holds staged, settlement total %d",
			run.RunID, run.EntriesExtracted, run.HoldsStaged, run.SettlementTotal))
	}

	if recordErr := p.runs.Record(*run); recordErr != nil {
		p.logger.Log("pipeline", fmt.Sprintf("run %s: %v", run.RunID, recordErr))
	}
	p.sendNotification(run)
	p.publishEvent(ctx, run)

	return run, err
}

func (p *Processor) processRun(ctx context.Context, run *runs.Run, contents []byte) error {
	file, err := nacha.Extract(bytes.NewReader(contents), nacha.Options{
		RoutingNumber: p.cfg.Extraction.RoutingNumber,
		Marker:        p.cfg.Extraction.Marker,
	})
	if err != nil {
		return failedStage("extract", err)
	}
	run.EntriesExtracted = len(file.OnUs)

	rewritten, totals, err := file.Rebuild()
	if err != nil {
		return failedStage("rewrite", err)
	}
	path, err := p.writeOutput(rewrittenFilename(run.InputFile), rewritten)
	if err != nil {
		return failedStage("rewrite", err)
	}
	run.RewrittenFile = path
	p.logger.Log("pipeline", fmt.Sprintf("wrote %s: %d batches, %d entries, credits=%d debits=%d",
		path, totals.Batches, totals.Entries, totals.Credits, totals.Debits))

	formatter := settlement.Formatter{
		EffectiveDate:   p.effectiveDate(),
		CashBoxNumber:   p.cfg.Settlement.CashBoxNumber,
		GLAccountNumber: p.cfg.Settlement.GLAccountNumber,
	}
	if err := formatter.Validate(); err != nil {
		return failedStage("settlement", err)
	}

	session, err := p.holds.Begin(ctx)
	if err != nil {
		return failedStage("holds", err)
	}
	holdDate, err := session.HoldDate(ctx)
	if err != nil {
		session.Rollback()
		return failedStage("holds", err)
	}

	lines, total, err := p.stageHolds(ctx, run, session, formatter, file.OnUs, holdDate)
	if err != nil {
		session.Rollback()
		return err
	}
	run.SettlementTotal = total

	path, err = p.writeOutput(settlementFilename(run.InputFile), lines)
	if err != nil {
		session.Rollback()
		return failedStage("settlement", err)
	}
	run.SettlementFile = path

	if p.cfg.Extraction.ReportOnly {
		session.Rollback()
		p.logger.Log("pipeline", "report-only: no database changes committed")
	} else {
		if err := session.Commit(); err != nil {
			return failedStage("commit", err)
		}
		p.logger.Log("pipeline", "database changes committed")
	}
	return nil
}

// stageHolds renders the settlement line for every extracted entry and
// stages its hold. Hold failures are soft, the entry still settles and the
// run keeps going. The returned lines end with the ledger offset.
func (p *Processor) stageHolds(ctx context.Context, run *runs.Run, session holds.Session, formatter settlement.Formatter, entries []nacha.OnUsEntry, holdDate string) ([]string, int, error) {
	var lines []string
	var total int

	for i := range entries {
		line, err := formatter.Line(entries[i])
		if err != nil {
			return nil, 0, failedStage("settlement", err)
		}
		lines = append(lines, line)
		total += entries[i].Amount
		entriesExtracted.With("transaction_code", entries[i].TransactionCode).Add(1)

		hold := holds.Hold{
			AccountNumber: entries[i].AccountNumber,
			Amount:        entries[i].Amount,
			Reason:        entries[i].Description,
			TraceNumber:   entries[i].TraceNumber,
			HoldDate:      holdDate,
		}
		account := holds.MaskAccountNumber(hold.AccountNumber)
		if p.cfg.Extraction.ReportOnly {
			p.logger.Log("pipeline", fmt.Sprintf("report-only: would stage hold for account %s amount %d", account, hold.Amount))
			continue
		}
		if err := session.Stage(ctx, hold); err != nil {
			run.HoldFailures++
			holdFailures.With("code", p.cfg.Holds.Code).Add(1)
			p.logger.Log("pipeline", fmt.Sprintf("could not stage hold for account %s: %v", account, err))
			continue
		}
		run.HoldsStaged++
		holdsStaged.With("code", p.cfg.Holds.Code).Add(1)
	}

	lines = append(lines, formatter.GLOffset(total))
	return lines, total, nil
}

func (p *Processor) effectiveDate() string {
	if p.EffectiveDate != "" {
		return p.EffectiveDate
	}
	return base.Now(time.UTC).AddBankingDay(1).Format("20060102")
}

func (p *Processor) writeOutput(filename string, lines []string) (string, error) {
	dir, err := filepath.Abs(p.cfg.Output.Directory)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	contents := []byte(strings.Join(lines, "\n") + "\n")
	if err := ioutil.WriteFile(path, contents, 0644); err != nil {
		return "", err
	}
	p.saveAuditCopy(filename, contents)
	return path, nil
}

// rewrittenFilename names the payment file sent onward without our on-us
// entries, e.g. "PPD20200817.ach" becomes "PPD20200817.out.ach".
func rewrittenFilename(input string) string {
	ext := filepath.Ext(input)
	if ext == "" {
		return input + ".out.ach"
	}
	return strings.TrimSuffix(input, ext) + ".out" + ext
}

func settlementFilename(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".settlement.txt"
}

func (p *Processor) saveAuditCopy(filename string, contents []byte) {
	if err := p.auditStorage.SaveFile(filename, contents); err != nil {
		p.logger.Log("pipeline", fmt.Sprintf("audit trail: %s: %v", filename, err))
	}
}

func (p *Processor) sendNotification(run *runs.Run) {
	msg := &notify.Message{
		Filename:         run.InputFile,
		Hostname:         p.cfg.ODFI.Hostname(),
		EntriesExtracted: run.EntriesExtracted,
		HoldsStaged:      run.HoldsStaged,
		Error:            run.Error,
	}
	msg.SettlementTotal, _ = model.NewAmountFromInt("USD", run.SettlementTotal)

	var err error
	if run.Status == runs.Success {
		err = p.notifier.Info(msg)
	} else {
		err = p.notifier.Critical(msg)
	}
	if err != nil {
		p.logger.Log("pipeline", fmt.Sprintf("run %s: notify: %v", run.RunID, err))
	}
}

// publishEvent sends the finished Run over the configured stream so other
// systems (fraud review, reconciliation) can react to extractions.
func (p *Processor) publishEvent(ctx context.Context, run *runs.Run) {
	if p.eventTopic == nil {
		return
	}
	body, err := json.Marshal(run)
	if err != nil {
		p.logger.Log("pipeline", fmt.Sprintf("run %s: marshal event: %v", run.RunID, err))
		return
	}
	err = p.eventTopic.Send(ctx, &pubsub.Message{
		Body: body,
		Metadata: map[string]string{
			"runID":     run.RunID,
			"inputFile": run.InputFile,
			"status":    string(run.Status),
		},
	})
	if err != nil {
		p.logger.Log("pipeline", fmt.Sprintf("run %s: publish event: %v", run.RunID, err))
	}
}
