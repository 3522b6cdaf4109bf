// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package sshx

import (
	"encoding/base64"
	"io/ioutil"
	"path/filepath"
	"testing"
)

// testdata keys were generated with 'ssh-keygen -t rsa -b 2048 -m PEM -f rsa-2048'
func TestReadPubKey(t *testing.T) {
	check := func(t *testing.T, data []byte) {
		t.Helper()

		key, err := ReadPubKey(data)
		if key == nil || err != nil {
			t.Fatalf("PublicKey=%v error=%v", key, err)
		}

		// wrapped in base64 like a config value
		data = []byte(base64.StdEncoding.EncodeToString(data))
		key, err = ReadPubKey(data)
		if key == nil || err != nil {
			t.Fatalf("PublicKey=%v error=%v", key, err)
		}

		// SSH wire format
		data = key.Marshal()
		key, err = ReadPubKey(data)
		if key == nil || err != nil {
			t.Fatalf("PublicKey=%v error=%v", key, err)
		}
	}

	data, err := ioutil.ReadFile(filepath.Join("testdata", "rsa-2048.pub"))
	if err != nil {
		t.Fatal(err)
	}
	check(t, data)

	data, err = ioutil.ReadFile(filepath.Join("testdata", "rsa-4096.pub"))
	if err != nil {
		t.Fatal(err)
	}
	check(t, data)
}

func TestReadPubKeyErr(t *testing.T) {
	if _, err := ReadPubKey([]byte("not a key")); err == nil {
		t.Error("expected error")
	}
}
