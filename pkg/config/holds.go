// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"time"
)

var (
	// DefaultBusinessDateQuery computes the hold release date against the
	// local database. Deployments pointing at a core system override this
	// with that system's banking calendar lookup.
	DefaultBusinessDateQuery = `select date('now', '+' || ? || ' day');`

	// DefaultInsertQuery stages holds into the ach_holds table created by
	// this project's migrations. Core system deployments override this
	// with their own staging statement, keeping the same bind order.
	DefaultInsertQuery = `insert into ach_holds (account_number, amount, reason, reason_type, hold_date, trace_number, hold_code) values (?, ?, ?, ?, ?, ?, ?);`
)

type Holds struct {
	// Code is the hold code written with every staged hold.
	Code string

	// Days is how many business days out the hold releases.
	Days int

	// ReasonType categorizes the hold for downstream review queues.
	ReasonType string

	// Cutoff is the "15:04" time of day appended to the release date.
	Cutoff string

	// BusinessDateQuery returns the hold release date. It takes a single
	// parameter, the number of days from today.
	BusinessDateQuery string

	// InsertQuery stages one hold. Binds are, in order: account number,
	// amount, reason, reason type, hold date, trace number, hold code.
	InsertQuery string

	// Encryption protects account numbers at rest when staging into the
	// local database. Leave unset when the insert query targets a core
	// system that stores account numbers itself.
	Encryption *HoldsEncryption
}

func (cfg Holds) Validate() error {
	if cfg.Code == "" {
		return errors.New("missing code")
	}
	if cfg.Days <= 0 {
		return fmt.Errorf("invalid days %d", cfg.Days)
	}
	if cfg.ReasonType == "" {
		return errors.New("missing reasonType")
	}
	if _, err := time.Parse("15:04", cfg.Cutoff); err != nil {
		return fmt.Errorf("invalid cutoff %q: %v", cfg.Cutoff, err)
	}
	if cfg.BusinessDateQuery == "" {
		return errors.New("missing businessDateQuery")
	}
	if cfg.InsertQuery == "" {
		return errors.New("missing insertQuery")
	}
	if err := cfg.Encryption.Validate(); err != nil {
		return err
	}
	return nil
}

type HoldsEncryption struct {
	Symmetric *Symmetric
}

func (cfg *HoldsEncryption) Validate() error {
	if cfg == nil {
		return nil
	}
	if cfg.Symmetric == nil || cfg.Symmetric.KeyURI == "" {
		return errors.New("encryption: missing symmetric keyURI")
	}
	return nil
}

type Symmetric struct {
	KeyURI string
}
