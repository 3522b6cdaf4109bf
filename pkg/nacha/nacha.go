// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package nacha reads and rewrites NACHA formatted payment files.
//
// Records are carried as raw 94 character lines so entries which aren't
// extracted round-trip byte for byte. Batch and file control records are
// recomputed from whatever records remain after extraction, and the file
// is padded with all nines records out to a multiple of ten lines.
package nacha

import (
	"fmt"
	"strconv"
)

const (
	// RecordLength is the fixed width of every NACHA record.
	RecordLength = 94

	// DefaultMarker is looked for inside an addenda record's payment
	// related information to decide if a held credit was opened through
	// an external account opening flow.
	DefaultMarker = "EXT OAO"
)

// ParseError is returned when a record can't be handled positionally.
type ParseError struct {
	Line   int    // 1-indexed line number in the input
	Record string // leading record type code
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: record type %s: %v", e.Line, e.Record, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// truncate keeps the rightmost ten digits of n, matching how entry hash
// totals roll over in control records.
func truncate(n int) int {
	s := strconv.Itoa(n)
	if len(s) > 10 {
		s = s[len(s)-10:]
	}
	v, _ := strconv.Atoi(s)
	return v
}
