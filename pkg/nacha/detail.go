// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package nacha

import (
	"fmt"
	"strconv"
	"strings"
)

// EntryDetail carries the fields sliced out of an entry detail record.
type EntryDetail struct {
	TransactionCode  string
	RoutingNumber    string
	AccountNumber    string // spaces removed
	Amount           int    // in cents
	AddendaIndicator string
	TraceNumber      string
}

// SequenceNumber returns the rightmost seven digits of the trace number.
func (ed EntryDetail) SequenceNumber() string {
	if len(ed.TraceNumber) < 7 {
		return ed.TraceNumber
	}
	return ed.TraceNumber[len(ed.TraceNumber)-7:]
}

// ParseEntryDetail slices the positional fields out of a '6' record.
func ParseEntryDetail(line string) (EntryDetail, error) {
	if n := len(line); n != RecordLength {
		return EntryDetail{}, fmt.Errorf("entry detail is %d characters", n)
	}
	detail := EntryDetail{
		TransactionCode:  line[1:3],
		RoutingNumber:    line[3:12],
		AccountNumber:    strings.ReplaceAll(line[12:29], " ", ""),
		AddendaIndicator: string(line[78]),
		TraceNumber:      line[79:94],
	}
	if v := strings.TrimLeft(line[29:39], "0"); v != "" {
		amt, err := strconv.Atoi(v)
		if err != nil {
			return EntryDetail{}, fmt.Errorf("invalid amount %q: %v", line[29:39], err)
		}
		detail.Amount = amt
	}
	return detail, nil
}
