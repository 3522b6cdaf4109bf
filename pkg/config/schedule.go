// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"time"
)

type Schedule struct {
	// Timezone is an IANA zone name cutoff windows are evaluated in.
	// Defaults to UTC.
	Timezone string

	// Cutoffs holds "15:04" times of day a processing run fires at on
	// banking days. Leave empty to only process on manual triggers.
	Cutoffs []string
}

func (cfg Schedule) Location() *time.Location {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil
	}
	return loc
}

func (cfg Schedule) Validate() error {
	if cfg.Location() == nil {
		return fmt.Errorf("unknown timezone %q", cfg.Timezone)
	}
	for i := range cfg.Cutoffs {
		if _, err := time.Parse("15:04", cfg.Cutoffs[i]); err != nil {
			return fmt.Errorf("invalid cutoff %q: %v", cfg.Cutoffs[i], err)
		}
	}
	return nil
}
