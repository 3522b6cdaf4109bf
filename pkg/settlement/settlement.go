// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package settlement renders the fixed width posting file the core banking
// system reads to move extracted entries onto member accounts.
//
// Each line is 154 characters. Every extracted entry posts as a deposit and
// the file always ends with one general ledger line offsetting the total.
package settlement

import (
	"errors"
	"fmt"
	"strings"

	"github.com/moov-io/onus/pkg/nacha"
)

// LineLength is the fixed width of every posting line.
const LineLength = 154

const descriptionLength = 45

// posting carries the core system transaction code and description used
// for one NACHA transaction code.
type posting struct {
	code        string
	description string
}

// Incoming credits post as deposits. The extractor only hands over checking
// and savings credits, anything else here is a defect upstream.
var postings = map[string]posting{
	"22": {code: "DEPD", description: "OAO External Transfer"},
	"32": {code: "DEPD", description: "OAO External Transfer"},
}

// Formatter renders posting lines for one settlement file.
type Formatter struct {
	EffectiveDate   string // YYYYMMDD posting date
	CashBoxNumber   string
	GLAccountNumber string // offset ledger account
}

func (f Formatter) Validate() error {
	if n := len(f.EffectiveDate); n != 8 {
		return fmt.Errorf("settlement: effective date %q isn't eight characters", f.EffectiveDate)
	}
	if f.CashBoxNumber == "" {
		return errors.New("settlement: missing cash box number")
	}
	if f.GLAccountNumber == "" {
		return errors.New("settlement: missing general ledger account number")
	}
	return nil
}

// Line renders the posting line for one extracted entry.
func (f Formatter) Line(entry nacha.OnUsEntry) (string, error) {
	p, ok := postings[entry.TransactionCode]
	if !ok {
		return "", fmt.Errorf("settlement: no posting for transaction code %q", entry.TransactionCode)
	}
	return f.format(entry.AccountNumber, p.code, entry.Amount, p.description, entry.TraceNumber), nil
}

// GLOffset renders the general ledger line which balances the file. It is
// always the last line, even when no entries were extracted.
func (f Formatter) GLOffset(total int) string {
	return f.format(f.GLAccountNumber, "GLD", total, "DNA ACH GL debit offset", "")
}

// File renders a posting line per entry followed by the ledger offset and
// returns the offset total in cents.
func (f Formatter) File(entries []nacha.OnUsEntry) ([]string, int, error) {
	var lines []string
	var total int
	for i := range entries {
		line, err := f.Line(entries[i])
		if err != nil {
			return nil, 0, err
		}
		lines = append(lines, line)
		total += entries[i].Amount
	}
	lines = append(lines, f.GLOffset(total))
	return lines, total, nil
}

func (f Formatter) format(account, code string, amount int, description, trace string) string {
	if len(description) > descriptionLength {
		description = description[:descriptionLength]
	}
	return fmt.Sprintf("%s%-4s%010d%s%8s%-45s%15s%10s%8s%-4s%-4s%-4s%10s%8s%1s",
		zeroPad(account, 17), code, amount, "000000", f.EffectiveDate, description,
		trace, f.CashBoxNumber, "", "EL", "INTR", "IMED", "", "", "")
}

func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
