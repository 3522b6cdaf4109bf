// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"testing"

	"github.com/moov-io/onus/pkg/config"
)

func TestMain__setupAccountNumberKeeper(t *testing.T) {
	cfg := config.Empty()
	if keeper := setupAccountNumberKeeper(context.Background(), cfg); keeper != nil {
		t.Errorf("unexpected keeper: %#v", keeper)
	}

	cfg.Holds.Encryption = &config.HoldsEncryption{
		Symmetric: &config.Symmetric{
			KeyURI: "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4=",
		},
	}
	if keeper := setupAccountNumberKeeper(context.Background(), cfg); keeper == nil {
		t.Fatal("nil StringKeeper")
	}
}
