// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package nacha

import (
	"fmt"
	"strings"
	"testing"
)

const (
	// routing numbers used throughout fixtures
	ourRouting     = "231380104"
	foreignRouting = "121042882"
)

func fileHeaderLine() string {
	line := "101 231380104 1210428822006151200A094101Federal Reserve Bank   My Bank                "
	return line + strings.Repeat(" ", RecordLength-len(line))
}

func batchHeaderLine(scc, companyID, odfi string, number int) string {
	return fmt.Sprintf("5%3s%-16s%-20s%-10s%-3s%-10s%-6s%-6s%3s%1s%-8s%07d",
		scc, "MY COMPANY", "", companyID, "PPD", "TRANSFER", "200615", "200616", "", "1", odfi, number)
}

func entryDetailLine(code, routing, account string, amount int, addenda, trace string) string {
	return fmt.Sprintf("6%2s%9s%-17s%010d%-15s%-22s%2s%1s%15s",
		code, routing, account, amount, "ID123", "JANE DOE", "", addenda, trace)
}

func addendaLine(info string, seq int, entrySeq string) string {
	return fmt.Sprintf("705%-80s%04d%7s", info, seq, entrySeq)
}

func batchControlLine(scc string, entries, hash, debit, credit int, companyID, odfi string, number int) string {
	return fmt.Sprintf("8%s%06d%010d%012d%012d%s%s%07d",
		scc, entries, hash, debit, credit, companyID, strings.Repeat(" ", 26), odfi, number)
}

func fileControlLine(batches, blocks, entries, hash, debit, credit int) string {
	return fmt.Sprintf("9%06d%06d%08d%010d%012d%012d%s",
		batches, blocks, entries, hash, debit, credit, strings.Repeat(" ", 39))
}

func paddingLine() string {
	return strings.Repeat("9", RecordLength)
}

func join(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestFixtureWidths(t *testing.T) {
	lines := []string{
		fileHeaderLine(),
		batchHeaderLine("220", "121042882", "12104288", 1),
		entryDetailLine("22", ourRouting, "1234567890", 12345, "1", "121042880000001"),
		addendaLine("EXT OAO membership funding", 1, "0000001"),
		batchControlLine("220", 2, 35242298, 0, 12345, "121042882", "12104288", 1),
		fileControlLine(1, 1, 2, 35242298, 0, 12345),
		paddingLine(),
	}
	for i := range lines {
		if n := len(lines[i]); n != RecordLength {
			t.Errorf("line %d is %d characters: %q", i, n, lines[i])
		}
	}
}

func TestTruncate(t *testing.T) {
	if v := truncate(0); v != 0 {
		t.Errorf("got %d", v)
	}
	if v := truncate(35242298); v != 35242298 {
		t.Errorf("got %d", v)
	}
	if v := truncate(10099999899); v != 99999899 {
		t.Errorf("got %d", v)
	}
}

func TestParseError(t *testing.T) {
	err := &ParseError{Line: 4, Record: "6", Err: fmt.Errorf("bad amount")}
	if v := err.Error(); v != "line 4: record type 6: bad amount" {
		t.Errorf("got %q", v)
	}
	if err.Unwrap() == nil {
		t.Error("expected wrapped error")
	}
}
