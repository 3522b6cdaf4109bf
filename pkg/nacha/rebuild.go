// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package nacha

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Totals carries the control record arithmetic accumulated over a rebuilt
// file. Amounts are in cents.
type Totals struct {
	Batches   int
	Entries   int // entry detail and addenda records kept
	EntryHash int // rightmost ten digits
	Debits    int
	Credits   int
}

// Rebuild reassembles the kept records into a complete NACHA file. Batches
// left with no records are dropped and the others renumbered densely from
// one. Batch and file control records are recomputed from what remains and
// the file is padded with all nines records to a multiple of ten lines.
//
// Rebuild only reads parsed state, so rebuilding twice yields identical
// output.
func (f *File) Rebuild() ([]string, Totals, error) {
	if f.Header == "" {
		return nil, Totals{}, errors.New("rebuild: missing file header")
	}

	var totals Totals
	var hashSum int

	out := []string{f.Header}
	for i := range f.Batches {
		lines, bt, err := rebuildBatch(f.Batches[i], totals.Batches+1)
		if err != nil {
			return nil, Totals{}, err
		}
		if len(lines) == 0 {
			continue // emptied batches don't consume a batch number
		}
		totals.Batches++
		totals.Entries += bt.entries
		hashSum += bt.hash
		totals.Debits += bt.debit
		totals.Credits += bt.credit
		out = append(out, lines...)
	}
	totals.EntryHash = truncate(hashSum)

	lineCount := len(out) + 1 // plus the file control below
	extra := 0
	if mod := lineCount % 10; mod != 0 {
		extra = 10 - mod
	}
	blockCount := (lineCount + extra) / 10

	out = append(out, fmt.Sprintf("9%06d%06d%08d%010d%012d%012d%s",
		totals.Batches, blockCount, totals.Entries, totals.EntryHash,
		totals.Debits, totals.Credits, strings.Repeat(" ", 39)))
	for i := 0; i < extra; i++ {
		out = append(out, strings.Repeat("9", RecordLength))
	}
	return out, totals, nil
}

type batchTotals struct {
	entries int
	hash    int // truncated
	debit   int
	credit  int
}

func rebuildBatch(b Batch, number int) ([]string, batchTotals, error) {
	var bt batchTotals
	if len(b.Lines) == 0 {
		return nil, bt, nil
	}
	if n := len(b.Header); n != RecordLength {
		return nil, bt, fmt.Errorf("batch %d: header is %d characters", number, n)
	}

	// The service class code, company identification and ODFI come over
	// from the batch header unchanged.
	scc := b.Header[1:4]
	companyID := b.Header[40:49]
	odfi := b.Header[79:87]

	var hashSum int
	for _, line := range b.Lines {
		bt.entries++
		if !strings.HasPrefix(line, "6") {
			continue
		}
		if n := len(line); n != RecordLength {
			return nil, bt, fmt.Errorf("batch %d: entry detail is %d characters", number, n)
		}
		h, err := strconv.Atoi(line[3:11])
		if err != nil {
			return nil, bt, fmt.Errorf("batch %d: entry hash from %q: %v", number, line[3:11], err)
		}
		hashSum += h

		var amount int
		if v := strings.TrimLeft(line[29:39], "0"); v != "" {
			amount, err = strconv.Atoi(v)
			if err != nil {
				return nil, bt, fmt.Errorf("batch %d: amount from %q: %v", number, line[29:39], err)
			}
		}
		switch code := line[1:3]; {
		case strings.HasSuffix(code, "2"):
			bt.credit += amount
		case strings.HasSuffix(code, "7"):
			bt.debit += amount
		}
	}
	bt.hash = truncate(hashSum)

	out := make([]string, 0, len(b.Lines)+2)
	out = append(out, fmt.Sprintf("%s%07d", b.Header[:87], number))
	out = append(out, b.Lines...)
	out = append(out, fmt.Sprintf("8%s%06d%010d%012d%012d%s%s%s%07d",
		scc, bt.entries, bt.hash, bt.debit, bt.credit, companyID,
		strings.Repeat(" ", 26), odfi, number))
	return out, bt, nil
}
