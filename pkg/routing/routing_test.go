// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package routing

import (
	"testing"
)

func TestValidate(t *testing.T) {
	valid := []string{
		"021000021",
		"321180379",
		"122105278",
	}
	for i := range valid {
		if err := Validate(valid[i]); err != nil {
			t.Errorf("%s: %v", valid[i], err)
		}
	}
}

func TestValidate__digits(t *testing.T) {
	if err := Validate("0210000a1"); err != ErrNotDigits {
		t.Errorf("got %v", err)
	}
	if err := Validate(""); err != ErrNotDigits {
		t.Errorf("got %v", err)
	}
	if err := Validate("02100 021"); err != ErrNotDigits {
		t.Errorf("got %v", err)
	}
}

func TestValidate__length(t *testing.T) {
	if err := Validate("02100002"); err != ErrLength {
		t.Errorf("got %v", err)
	}
	if err := Validate("0210000211"); err != ErrLength {
		t.Errorf("got %v", err)
	}
}

func TestValidate__district(t *testing.T) {
	// passes the checksum but the third and fourth digits are 13
	if err := Validate("231380104"); err != ErrDistrict {
		t.Errorf("got %v", err)
	}
	if err := Validate("990000005"); err != ErrDistrict {
		t.Errorf("got %v", err)
	}
}

// Flipping any single digit of a valid routing number breaks the checksum,
// as long as the district digits stay plausible.
func TestValidate__checksum(t *testing.T) {
	if err := Validate("121000021"); err != ErrChecksum {
		t.Errorf("got %v", err)
	}
	if err := Validate("321180378"); err != ErrChecksum {
		t.Errorf("got %v", err)
	}

	base := "321180379"
	for i := 0; i < len(base); i++ {
		flipped := []byte(base)
		flipped[i] = '0' + (flipped[i]-'0'+1)%10
		err := Validate(string(flipped))
		if err == nil {
			t.Errorf("%s: expected an error", string(flipped))
		}
	}
}
