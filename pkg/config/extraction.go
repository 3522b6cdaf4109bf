// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"

	"github.com/moov-io/onus/pkg/routing"
)

type Extraction struct {
	// RoutingNumber is the ABA routing number entries are scanned for.
	// Entries destined elsewhere pass through untouched.
	RoutingNumber string

	// Marker is the text an addenda record must carry for the preceding
	// entry to be pulled from the file.
	Marker string

	// ReportOnly rolls back hold staging instead of committing it. Output
	// files are still written and runs recorded, so a dry run shows
	// exactly what a live one would do to the database.
	ReportOnly bool
}

func (cfg Extraction) Validate() error {
	if cfg.RoutingNumber == "" {
		return errors.New("missing routingNumber")
	}
	if err := routing.Validate(cfg.RoutingNumber); err != nil {
		return fmt.Errorf("routingNumber: %v", err)
	}
	if cfg.Marker == "" {
		return errors.New("missing marker")
	}
	return nil
}
