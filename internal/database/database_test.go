// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package database

import (
	"context"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/moov-io/onus/pkg/config"

	"github.com/go-kit/kit/log"
)

func TestDatabase__New(t *testing.T) {
	if _, err := New(context.Background(), log.NewNopLogger(), config.Database{}); err == nil {
		t.Error("expected error")
	}

	dir, err := ioutil.TempDir("", "onus-database")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	db, err := New(context.Background(), log.NewNopLogger(), config.Database{
		SQLite: &config.SQLite{
			Path: filepath.Join(dir, "onus.db"),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Fatal(err)
	}
}

func TestUniqueViolation(t *testing.T) {
	err := errors.New(`problem staging hold for trace="121042880000001": Error 1062: Duplicate entry '121042880000001' for key 'ach_holds_trace_number'`)
	if !UniqueViolation(err) {
		t.Error("should have matched unique violation")
	}

	err = errors.New(`problem staging hold for trace="121042880000001": UNIQUE constraint failed: ach_holds.trace_number`)
	if !UniqueViolation(err) {
		t.Error("should have matched unique violation")
	}

	if UniqueViolation(errors.New("connection reset")) {
		t.Error("shouldn't have matched")
	}
}
