// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package schedule fires processing runs at the cutoff times agreed on
// with the ODFI. Payment files land on their server ahead of each cutoff
// and need to be picked up, extracted, and returned before settlement.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/moov-io/onus/pkg/config"

	"github.com/moov-io/base"
	"github.com/robfig/cron/v3"
)

// CutoffTimes is a time.Ticker which fires on banking days at each
// configured cutoff. Weekends and Federal Reserve holidays are skipped
// since no files are exchanged then.
type CutoffTimes struct {
	C chan time.Time

	sched *cron.Cron
}

func ForCutoffTimes(cfg config.Schedule) (*CutoffTimes, error) {
	ct := &CutoffTimes{
		C:     make(chan time.Time),
		sched: cron.New(),
	}
	if err := ct.registerCutoffs(cfg); err != nil {
		return nil, err
	}
	ct.sched.Start()
	return ct, nil
}

func (ct *CutoffTimes) Stop() {
	if ct == nil {
		return
	}
	if ct.C != nil {
		close(ct.C)
	}
	if ct.sched != nil {
		ct.sched.Stop()
	}
}

func (ct *CutoffTimes) maybeTick(location *time.Location) {
	now := base.Now(location)
	if !now.IsWeekend() && now.IsBankingDay() {
		ct.C <- now.Time
	}
}

func (ct *CutoffTimes) registerCutoffs(cfg config.Schedule) error {
	if len(cfg.Cutoffs) == 0 {
		return errors.New("missing cutoff times")
	}
	for i := range cfg.Cutoffs {
		if err := ct.register(cfg.Timezone, cfg.Cutoffs[i]); err != nil {
			return fmt.Errorf("cutoff=%s error=%v", cfg.Cutoffs[i], err)
		}
	}
	return nil
}

func (ct *CutoffTimes) register(tz string, timestamp string) error {
	when, err := time.Parse("15:04", timestamp)
	if err != nil {
		return fmt.Errorf("failed to parse '%s' error=%v", timestamp, err)
	}

	var zone string
	location := time.UTC
	if tz != "" {
		zone = fmt.Sprintf("CRON_TZ=%s", tz)
		l, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("unknown timezone %q: %v", tz, err)
		}
		location = l
	}
	schedule := fmt.Sprintf(`%s %d %d * * *`, zone, when.Minute(), when.Hour())
	ct.sched.AddFunc(schedule, func() {
		ct.maybeTick(location)
	})

	return nil
}
