// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"time"

	"github.com/moov-io/onus/internal/pipeline/output"
	"github.com/moov-io/onus/internal/pipeline/transform"
	"github.com/moov-io/onus/internal/schedule"
	"github.com/moov-io/onus/pkg/config"
	"github.com/moov-io/onus/pkg/upload"

	"github.com/go-kit/kit/log"
	"github.com/moov-io/base"
)

// Scheduler picks payment files up off the ODFI server at each cutoff
// time and runs them through extraction. The rewritten payment file and
// settlement file are uploaded back when processing succeeds. Operators
// can force a pickup between cutoffs over the admin server.
type Scheduler struct {
	logger log.Logger
	cfg    *config.Config

	processor *Processor
	agent     upload.Agent

	cutoffs       *schedule.CutoffTimes
	cutoffTrigger chan manuallyTriggeredCutoff

	transformers []transform.PreUpload
	formatter    output.Formatter

	shutdown     context.Context
	shutdownFunc context.CancelFunc
}

func NewScheduler(cfg *config.Config, processor *Processor, agent upload.Agent) (*Scheduler, error) {
	var cutoffs *schedule.CutoffTimes
	if len(cfg.Schedule.Cutoffs) > 0 {
		ct, err := schedule.ForCutoffTimes(cfg.Schedule)
		if err != nil {
			return nil, fmt.Errorf("scheduler: %v", err)
		}
		cutoffs = ct
	} else {
		cfg.Logger.Log("scheduler", "no cutoff times configured, processing on manual triggers only")
	}

	transformers, err := transform.Multi(cfg.Logger, cfg.Pipeline.PreUpload)
	if err != nil {
		return nil, fmt.Errorf("scheduler: %v", err)
	}
	formatter, err := output.NewFormatter(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("scheduler: %v", err)
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	return &Scheduler{
		logger:        cfg.Logger,
		cfg:           cfg,
		processor:     processor,
		agent:         agent,
		cutoffs:       cutoffs,
		cutoffTrigger: make(chan manuallyTriggeredCutoff, 1),
		transformers:  transformers,
		formatter:     formatter,
		shutdown:      ctx,
		shutdownFunc:  cancelFunc,
	}, nil
}

func (s *Scheduler) Shutdown() {
	if s == nil {
		return
	}
	s.shutdownFunc()
	s.cutoffs.Stop()
}

// Start blocks, processing inbound payment files on each cutoff tick and
// manual trigger until Shutdown is called.
func (s *Scheduler) Start() error {
	var ticks chan time.Time
	if s.cutoffs != nil {
		ticks = s.cutoffs.C
	}

	for {
		select {
		case tick := <-ticks:
			s.logger.Log("scheduler", fmt.Sprintf("processing inbound files at %s cutoff", tick.Format("15:04")))
			if err := s.processInboundFiles(); err != nil {
				s.logger.Log("scheduler", fmt.Sprintf("ERROR processing inbound files: %v", err))
			}

		case waiter := <-s.cutoffTrigger:
			s.logger.Log("scheduler", "processing inbound files from manual trigger")
			waiter.C <- s.processInboundFiles()

		case <-s.shutdown.Done():
			s.logger.Log("scheduler", "shutting down")
			return nil
		}
	}
}

// processInboundFiles runs every file waiting on the ODFI server through
// extraction. One bad file doesn't stop the others.
func (s *Scheduler) processInboundFiles() error {
	files, err := s.agent.GetInboundFiles()
	if err != nil {
		return fmt.Errorf("listing inbound files: %v", err)
	}
	s.logger.Log("scheduler", fmt.Sprintf("found %d inbound files", len(files)))

	var el base.ErrorList
	for i := range files {
		if err := s.processInboundFile(files[i]); err != nil {
			el.Add(fmt.Errorf("%s: %v", files[i].Filename, err))
		}
	}
	if el.Empty() {
		return nil
	}
	return el
}

func (s *Scheduler) processInboundFile(file upload.File) error {
	contents, err := ioutil.ReadAll(file.Contents)
	file.Close()
	if err != nil {
		return fmt.Errorf("reading contents: %v", err)
	}

	run, err := s.processor.Process(s.shutdown, file.Filename, contents)
	if err != nil {
		return err
	}

	for _, path := range []string{run.RewrittenFile, run.SettlementFile} {
		if err := s.uploadFile(path); err != nil {
			return fmt.Errorf("uploading %s: %v", filepath.Base(path), err)
		}
	}

	if !s.cfg.ODFI.KeepRemoteFiles {
		path := filepath.Join(s.agent.InboundPath(), file.Filename)
		if err := s.agent.Delete(path); err != nil {
			return fmt.Errorf("deleting remote %s: %v", path, err)
		}
	}
	return nil
}

// uploadFile sends one local output file to the ODFI server's outbound
// directory, transformed and encoded per the pipeline config.
func (s *Scheduler) uploadFile(path string) error {
	contents, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	res, err := transform.ForUpload(filepath.Base(path), contents, s.transformers)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := s.formatter.Format(&buf, res); err != nil {
		return err
	}

	err = s.agent.UploadFile(upload.File{
		Filename: res.Filename,
		Contents: ioutil.NopCloser(&buf),
	})
	if err != nil {
		return err
	}
	s.logger.Log("scheduler", fmt.Sprintf("uploaded %s to %s", res.Filename, s.agent.OutboundPath()))
	return nil
}
