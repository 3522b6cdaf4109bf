// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package config

import (
	"errors"
)

type Settlement struct {
	// GLAccountNumber is the general ledger account the offsetting debit
	// posts against.
	GLAccountNumber string

	// CashBoxNumber identifies the teller/cash box on every posted line.
	CashBoxNumber string
}

func (cfg Settlement) Validate() error {
	if cfg.GLAccountNumber == "" {
		return errors.New("missing glAccountNumber")
	}
	if cfg.CashBoxNumber == "" {
		return errors.New("missing cashBoxNumber")
	}
	return nil
}
