// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package nacha

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Options configure which entries Extract removes from a payment file.
type Options struct {
	// RoutingNumber is our own ABA routing number. Incoming credits routed
	// to it become extraction candidates.
	RoutingNumber string

	// Marker is the text looked for inside the addenda payment related
	// information of a candidate. Defaults to DefaultMarker.
	Marker string
}

// File holds one parsed payment file split into the records kept for the
// rewritten file and the on-us entries pulled out of it.
type File struct {
	Header  string // file header record, verbatim
	Batches []Batch
	OnUs    []OnUsEntry
}

// Batch is one batch header plus every entry detail and addenda record kept
// under it. Control records are dropped here and recomputed by Rebuild.
type Batch struct {
	Header string
	Lines  []string
}

// OnUsEntry is an extracted entry detail along with the description found
// in its matching addenda record.
type OnUsEntry struct {
	EntryDetail
	Description string
}

type pendingEntry struct {
	raw    string
	detail EntryDetail
}

type extractor struct {
	opts Options

	file    *File
	batch   *Batch
	pending *pendingEntry
	line    int
}

// Extract reads a NACHA formatted payment file and pulls out credits routed
// to opts.RoutingNumber whose addenda record carries the marker. Everything
// else is preserved verbatim, grouped by batch, ready for Rebuild.
//
// Reading stops at the file control record. A read error or malformed
// record aborts extraction with no partial result.
func Extract(r io.Reader, opts Options) (*File, error) {
	if opts.RoutingNumber == "" {
		return nil, errors.New("extract: missing routing number")
	}
	if opts.Marker == "" {
		opts.Marker = DefaultMarker
	}

	ex := &extractor{opts: opts, file: &File{}}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		ex.line++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if line[0] == '9' {
			break
		}
		if err := ex.record(line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading payment file: %v", err)
	}
	if ex.file.Header == "" {
		return nil, ex.parseErr("1", errors.New("missing file header"))
	}
	if ex.batch != nil || ex.pending != nil {
		return nil, ex.parseErr("8", errors.New("unterminated batch"))
	}
	return ex.file, nil
}

func (ex *extractor) record(line string) error {
	switch line[0] {
	case '1':
		if ex.file.Header != "" {
			return ex.parseErr("1", errors.New("duplicate file header"))
		}
		ex.file.Header = line
	case '5':
		if n := len(line); n != RecordLength {
			return ex.parseErr("5", fmt.Errorf("batch header is %d characters", n))
		}
		// A new batch header throws away any unstored batch along with an
		// unresolved candidate from it.
		ex.pending = nil
		ex.batch = &Batch{Header: line}
	case '6':
		return ex.entryDetail(line)
	case '7':
		return ex.addenda(line)
	case '8':
		ex.batchControl()
	default:
		return ex.parseErr(string(line[0]), errors.New("unknown record type"))
	}
	return nil
}

func (ex *extractor) entryDetail(line string) error {
	if ex.batch == nil {
		return ex.parseErr("6", errors.New("entry detail outside a batch"))
	}
	ex.flushPending()

	detail, err := ParseEntryDetail(line)
	if err != nil {
		return ex.parseErr("6", err)
	}
	if detail.RoutingNumber == ex.opts.RoutingNumber && isCandidateCode(detail.TransactionCode) {
		ex.pending = &pendingEntry{raw: line, detail: detail}
		return nil
	}
	ex.batch.Lines = append(ex.batch.Lines, line)
	return nil
}

func (ex *extractor) addenda(line string) error {
	if ex.batch == nil {
		return ex.parseErr("7", errors.New("addenda outside a batch"))
	}
	if n := len(line); n != RecordLength {
		return ex.parseErr("7", fmt.Errorf("addenda is %d characters", n))
	}
	if ex.pending == nil {
		ex.batch.Lines = append(ex.batch.Lines, line)
		return nil
	}

	info := line[3:83] // payment related information
	if !strings.Contains(info, ex.opts.Marker) {
		// The held entry wasn't an external account opening, so it and its
		// addenda go back in their original order.
		ex.batch.Lines = append(ex.batch.Lines, ex.pending.raw, line)
		ex.pending = nil
		return nil
	}

	desc := strings.TrimSpace(info)
	if len(desc) > 128 {
		desc = desc[:128]
	}
	ex.file.OnUs = append(ex.file.OnUs, OnUsEntry{
		EntryDetail: ex.pending.detail,
		Description: desc,
	})
	ex.pending = nil
	return nil
}

// batchControl closes the open batch. The input control record itself is
// dropped since Rebuild recomputes every control.
func (ex *extractor) batchControl() {
	if ex.batch == nil {
		return
	}
	ex.flushPending()
	ex.file.Batches = append(ex.file.Batches, *ex.batch)
	ex.batch = nil
}

// flushPending puts a candidate which never saw an addenda record back into
// the batch unchanged.
func (ex *extractor) flushPending() {
	if ex.pending != nil {
		ex.batch.Lines = append(ex.batch.Lines, ex.pending.raw)
		ex.pending = nil
	}
}

func (ex *extractor) parseErr(record string, err error) error {
	return &ParseError{Line: ex.line, Record: record, Err: err}
}

// isCandidateCode reports if an entry is a checking or savings credit, the
// only transaction codes eligible for extraction.
func isCandidateCode(code string) bool {
	switch code {
	case "22", "32":
		return true
	}
	return false
}
