// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package model holds small value types shared across the project.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/currency"
)

// Amount represents units of a particular currency.
type Amount struct {
	number int
	symbol string // ISO 4217, i.e. USD
}

// Int returns the currency amount as an integer.
// Example: "USD 1.11" returns 111
func (a *Amount) Int() int {
	if a == nil {
		return 0
	}
	return a.number
}

func (a *Amount) Validate() error {
	if a == nil {
		return errors.New("nil Amount")
	}
	_, err := currency.ParseISO(a.symbol)
	return err
}

// NewAmountFromInt returns an Amount object after converting an integer amount (in cents)
// and validating the ISO 4217 currency symbol.
func NewAmountFromInt(symbol string, number int) (*Amount, error) {
	return NewAmount(symbol, formattedNumber(number))
}

// NewAmount returns an Amount object after validating the ISO 4217 currency symbol.
func NewAmount(symbol string, number string) (*Amount, error) {
	var amt Amount
	if err := amt.FromString(fmt.Sprintf("%s %s", symbol, number)); err != nil {
		return nil, err
	}
	return &amt, nil
}

// String returns an amount formatted with the currency.
// Example:
//   USD 12.53
//
// The symbol returned corresponds to the ISO 4217 standard.
// Only one period used to signify decimal value will be included.
func (a *Amount) String() string {
	if a == nil || a.symbol == "" || a.number <= 0 {
		return "USD 0.00"
	}
	return fmt.Sprintf("%s %s", a.symbol, formattedNumber(a.number))
}

func formattedNumber(number int) string {
	if number <= 0 {
		return "0.00"
	}
	if number < 10 {
		return fmt.Sprintf("0.0%d", number)
	}
	if number < 100 {
		return fmt.Sprintf("0.%d", number)
	}
	str := fmt.Sprintf("%d", number)
	parts := []string{str[:len(str)-2], str[len(str)-2:]}
	return strings.Join(parts, ".")
}

// FromString attempts to parse str as a valid currency symbol and
// the quantity.
// Example:
//   USD 12.53
func (a *Amount) FromString(str string) error {
	if a == nil {
		a = &Amount{}
	}

	parts := strings.Fields(str)
	if len(parts) != 2 {
		return fmt.Errorf("invalid Amount format: %q", str)
	}

	sym, err := currency.ParseISO(parts[0])
	if err != nil {
		return err
	}

	var number int
	idx := strings.Index(parts[1], ".")
	if idx == -1 {
		// No decimal (i.e. "12") so just convert to int
		number, err = strconv.Atoi(parts[1])
		if err != nil {
			return err
		}
	} else {
		// Has decimal, convert to 2 decimals then to int
		whole, err := strconv.Atoi(parts[1][:idx])
		if err != nil {
			return err
		}
		var dec int
		if utf8.RuneCountInString(parts[1][idx+1:]) > 2 { // more than 2 decimal values
			dec, _ = strconv.Atoi(parts[1][idx+1 : idx+4])
			if dec%10 >= 5 { // do we need to round?
				dec = (dec / 10) + 1 // round cents up $0.01
			} else {
				dec = dec / 10
			}
		} else {
			dec, _ = strconv.Atoi(parts[1][idx+1 : idx+3]) // decimal values
		}
		number = (whole * 100) + dec
	}

	a.number = number
	a.symbol = sym.String()
	return nil
}
