// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package database

import (
	"testing"
)

func TestMySQL__basic(t *testing.T) {
	db := CreateTestMySQLDB(t)
	defer db.Close()

	if err := db.DB.Ping(); err != nil {
		t.Fatal(err)
	}

	if _, err := db.DB.Exec(`insert into ach_holds (account_number, amount, reason, reason_type, hold_date, trace_number, hold_code) values (?, ?, ?, ?, ?, ?, ?);`,
		"1234567890", "1000.00", "OAO new member ACH hold", "OAO new member ACH hold", "2020-06-16 16:00", "121042880000001", "AHLD"); err != nil {
		t.Fatal(err)
	}

	_, err := db.DB.Exec(`insert into ach_holds (account_number, amount, reason, reason_type, hold_date, trace_number, hold_code) values (?, ?, ?, ?, ?, ?, ?);`,
		"1234567890", "1000.00", "OAO new member ACH hold", "OAO new member ACH hold", "2020-06-16 16:00", "121042880000001", "AHLD")
	if err == nil {
		t.Fatal("expected unique violation")
	}
	if !UniqueViolation(err) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMySQLUniqueViolation(t *testing.T) {
	err := &testError{msg: `Error 1062: Duplicate entry '121042880000001' for key 'ach_holds_trace_number'`}
	if !MySQLUniqueViolation(err) {
		t.Error("should have matched unique violation")
	}
}
