// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package nacha

import (
	"strings"
	"testing"
)

func TestParseEntryDetail(t *testing.T) {
	line := entryDetailLine("22", "231380104", "12 345 6789", 2546, "1", "121042880000001")

	detail, err := ParseEntryDetail(line)
	if err != nil {
		t.Fatal(err)
	}
	if detail.TransactionCode != "22" {
		t.Errorf("transaction code: %q", detail.TransactionCode)
	}
	if detail.RoutingNumber != "231380104" {
		t.Errorf("routing number: %q", detail.RoutingNumber)
	}
	if detail.AccountNumber != "123456789" {
		t.Errorf("account number: %q", detail.AccountNumber)
	}
	if detail.Amount != 2546 {
		t.Errorf("amount: %d", detail.Amount)
	}
	if detail.AddendaIndicator != "1" {
		t.Errorf("addenda indicator: %q", detail.AddendaIndicator)
	}
	if detail.TraceNumber != "121042880000001" {
		t.Errorf("trace number: %q", detail.TraceNumber)
	}
	if v := detail.SequenceNumber(); v != "0000001" {
		t.Errorf("sequence number: %q", v)
	}
}

func TestParseEntryDetail__amount(t *testing.T) {
	detail, err := ParseEntryDetail(entryDetailLine("27", "231380104", "1", 0, "0", "121042880000002"))
	if err != nil {
		t.Fatal(err)
	}
	if detail.Amount != 0 {
		t.Errorf("amount: %d", detail.Amount)
	}

	// non-numeric amounts are rejected
	line := []byte(entryDetailLine("27", "231380104", "1", 0, "0", "121042880000002"))
	copy(line[29:39], "00000X1000")
	if _, err := ParseEntryDetail(string(line)); err == nil {
		t.Error("expected error")
	}
}

func TestParseEntryDetail__length(t *testing.T) {
	if _, err := ParseEntryDetail("62723138010"); err == nil {
		t.Error("expected error")
	}
	if _, err := ParseEntryDetail(entryDetailLine("22", "231380104", "1", 1, "1", "121042880000001") + " "); err == nil {
		t.Error("expected error")
	}
}

func TestEntryDetail__sequenceNumber(t *testing.T) {
	ed := EntryDetail{TraceNumber: "12345"}
	if v := ed.SequenceNumber(); v != "12345" {
		t.Errorf("got %q", v)
	}
	ed.TraceNumber = strings.Repeat("7", 15)
	if v := ed.SequenceNumber(); v != "7777777" {
		t.Errorf("got %q", v)
	}
}
