// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package holds stages account holds for extracted entries so the core
// banking system releases funds only after the configured number of
// business days.
package holds

import (
	"strings"
	"unicode/utf8"
)

// Hold is one staged account hold.
type Hold struct {
	// AccountNumber the hold applies against.
	AccountNumber string

	// Amount of the hold, in cents.
	Amount int

	// Reason is the payment description carried on the entry's addenda record.
	Reason string

	// TraceNumber of the entry the hold came from.
	TraceNumber string

	// HoldDate is when the hold releases, "YYYY-MM-DD HH:MM".
	HoldDate string
}

// MaskAccountNumber hides all but the last four digits for log lines.
func MaskAccountNumber(s string) string {
	if utf8.RuneCountInString(s) < 5 {
		return "****" // too short, we can't keep anything
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
