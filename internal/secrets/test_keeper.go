// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package secrets

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"
	"time"
)

var (
	testSecretKey = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("1"), 32))
)

// TestStringKeeper returns a StringKeeper backed by a fixed local key.
func TestStringKeeper(t *testing.T) *StringKeeper {
	t.Helper()
	keeper, err := OpenKeeper(context.Background(), "base64key://"+testSecretKey)
	if err != nil {
		t.Fatal(err)
	}
	return NewStringKeeper(keeper, 1*time.Second)
}
