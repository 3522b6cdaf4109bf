// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package routing validates ABA routing transit numbers.
package routing

import (
	"errors"
)

var (
	// ErrNotDigits means the routing number held something besides digits.
	ErrNotDigits = errors.New("routing number must be all digits")

	// ErrLength means the routing number wasn't nine digits long.
	ErrLength = errors.New("routing number isn't nine digits")

	// ErrDistrict means the third and fourth digits don't name a federal
	// reserve district.
	ErrDistrict = errors.New("invalid federal reserve district")

	// ErrChecksum means the weighted checksum didn't come out to zero.
	ErrChecksum = errors.New("invalid checksum")
)

var weights = [9]int{3, 7, 1, 3, 7, 1, 3, 7, 1}

// Validate checks an ABA routing transit number and returns an error naming
// the first check it fails.
func Validate(routingNumber string) error {
	if !allDigits(routingNumber) {
		return ErrNotDigits
	}
	if len(routingNumber) != 9 {
		return ErrLength
	}
	if !validDistrict(routingNumber[2:4]) {
		return ErrDistrict
	}
	if checksum(routingNumber)%10 != 0 {
		return ErrChecksum
	}
	return nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// validDistrict accepts 01 through 12, 20 through 29 and 30 through 39.
func validDistrict(district string) bool {
	switch district[0] {
	case '0':
		return district[1] != '0'
	case '1':
		return district[1] <= '2'
	case '2', '3':
		return true
	}
	return false
}

func checksum(s string) int {
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(s[i]-'0') * weights[i]
	}
	return sum
}
