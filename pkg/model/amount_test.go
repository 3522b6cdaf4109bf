// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package model

import (
	"testing"
)

func TestAmount(t *testing.T) {
	// happy path
	amt, err := NewAmount("USD", "12.00")
	if err != nil {
		t.Error(err)
	}
	if v := amt.String(); v != "USD 12.00" {
		t.Errorf("got %q", v)
	}
	if err := amt.Validate(); err != nil {
		t.Error(err)
	}

	amt, err = NewAmount("USD", "12")
	if err != nil {
		t.Error(err)
	}
	if v := amt.String(); v != "USD 0.12" {
		t.Errorf("got %q", v)
	}

	// invalid
	if _, err := NewAmount("", ".0"); err == nil {
		t.Errorf("expected error")
	}
	if _, err := NewAmount("zz", "12.00"); err == nil {
		t.Errorf("expected error")
	}
}

func TestAmount__NewAmountFromInt(t *testing.T) {
	if amt, _ := NewAmountFromInt("USD", 1266); amt.String() != "USD 12.66" {
		t.Errorf("got %q", amt.String())
	}
	if amt, _ := NewAmountFromInt("USD", 4112); amt.String() != "USD 41.12" {
		t.Errorf("got %q", amt.String())
	}
	if amt, _ := NewAmountFromInt("USD", 7); amt.String() != "USD 0.07" {
		t.Errorf("got %q", amt.String())
	}
}

func TestAmount__Int(t *testing.T) {
	amt, _ := NewAmountFromInt("USD", 1266)
	if v := amt.Int(); v != 1266 {
		t.Errorf("got %d", v)
	}

	amt = nil
	if v := amt.Int(); v != 0 {
		t.Errorf("got %d", v)
	}
	if v := amt.String(); v != "USD 0.00" {
		t.Errorf("got %q", v)
	}
	if err := amt.Validate(); err == nil {
		t.Error("expected error")
	}
}

func TestAmount__FromString(t *testing.T) {
	var amt Amount

	// round up extra decimals
	if err := amt.FromString("USD 12.005"); err != nil {
		t.Fatal(err)
	}
	if v := amt.String(); v != "USD 12.01" {
		t.Errorf("got %q", v)
	}

	if err := amt.FromString("USD 12.004"); err != nil {
		t.Fatal(err)
	}
	if v := amt.String(); v != "USD 12.00" {
		t.Errorf("got %q", v)
	}

	if err := amt.FromString("malformed"); err == nil {
		t.Error("expected error")
	}
	if err := amt.FromString("USD x.00"); err == nil {
		t.Error("expected error")
	}
}
