// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package schedule

import (
	"testing"
	"time"

	"github.com/moov-io/onus/pkg/config"
)

func TestCutoffTimes(t *testing.T) {
	if testing.Short() {
		t.Skip("this test can take up to 60s, skipping")
	}

	next := time.Now().Add(time.Minute).Format("15:04")

	cutoffs, err := ForCutoffTimes(config.Schedule{
		Timezone: time.Local.String(),
		Cutoffs:  []string{next},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer cutoffs.Stop()

	tt := <-cutoffs.C // block on channel read

	expected := tt.Format("15:04")
	if next != expected {
		t.Errorf("next=%q expected=%q", next, expected)
	}
}

func TestCutoffTimesErr(t *testing.T) {
	_, err := ForCutoffTimes(config.Schedule{Timezone: "bad_zone", Cutoffs: []string{"16:20"}})
	if err == nil {
		t.Error("expected error")
	}
	_, err = ForCutoffTimes(config.Schedule{Timezone: time.Local.String()})
	if err == nil {
		t.Error("expected error")
	}
	_, err = ForCutoffTimes(config.Schedule{Timezone: time.Local.String(), Cutoffs: []string{"bad:time"}})
	if err == nil {
		t.Error("expected error")
	}
}
