// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package runs records the outcome of every processed payment file so
// operators can audit what was extracted, staged, and written.
package runs

import (
	"time"
)

type Status string

const (
	Success Status = "success"
	Failed  Status = "failed"
)

// Run is the bookkeeping row for one processed payment file.
type Run struct {
	RunID string `json:"runID"`

	InputFile      string `json:"inputFile"`
	RewrittenFile  string `json:"rewrittenFile,omitempty"`
	SettlementFile string `json:"settlementFile,omitempty"`

	EntriesExtracted int `json:"entriesExtracted"`
	HoldsStaged      int `json:"holdsStaged"`
	HoldFailures     int `json:"holdFailures"`

	// SettlementTotal is the sum of extracted entries, in cents.
	SettlementTotal int `json:"settlementTotal"`

	ReportOnly bool `json:"reportOnly"`

	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
