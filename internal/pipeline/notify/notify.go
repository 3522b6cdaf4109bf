// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package notify tells operators how each extraction run went. Senders
// are fire-and-forget, a notification failure never fails the run.
package notify

import (
	"fmt"

	"github.com/moov-io/onus/pkg/model"
)

// Message describes one finished extraction run.
type Message struct {
	Filename string // input payment file
	Hostname string // ODFI server the file came from, if any

	EntriesExtracted int
	HoldsStaged      int
	SettlementTotal  *model.Amount

	// Error is the failure which ended the run. Empty on success.
	Error string
}

type Sender interface {
	Info(msg *Message) error
	Critical(msg *Message) error
}

type runStatus string

const (
	success = runStatus("successful")
	failed  = runStatus("failed")
)

func marshalMessage(status runStatus, msg *Message) string {
	out := fmt.Sprintf("%s extraction of %s", status, msg.Filename)
	if msg.Hostname != "" {
		out += fmt.Sprintf(" from %s", msg.Hostname)
	}
	switch status {
	case success:
		out += fmt.Sprintf(" (%d entries, %d holds, %s)", msg.EntriesExtracted, msg.HoldsStaged, msg.SettlementTotal)
	case failed:
		if msg.Error != "" {
			out += ": " + msg.Error
		}
	}
	return out
}
