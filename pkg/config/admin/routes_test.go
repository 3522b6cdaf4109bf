// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package admin

import (
	"io/ioutil"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/moov-io/onus/internal/testclient"
	"github.com/moov-io/onus/pkg/config"
)

func TestConfigRoute(t *testing.T) {
	cfg, err := config.FromFile(filepath.Join("..", "testdata", "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	svc := testclient.Admin(t)
	RegisterRoutes(svc, cfg)

	resp, err := http.DefaultClient.Get("http://" + svc.BindAddr() + "/config")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("bogus HTTP status: %s", resp.Status)
	}

	bs, _ := ioutil.ReadAll(resp.Body)

	// the rendered config should parse and validate
	rendered, err := config.Read(bs)
	if err != nil {
		t.Fatal(err)
	}
	if v := rendered.ODFI.SFTP.Password; v != "s****t" {
		t.Errorf("sftp password wasn't masked: %q", v)
	}
	if v := rendered.Extraction.RoutingNumber; v != cfg.Extraction.RoutingNumber {
		t.Errorf("routing number: %q", v)
	}
	// the running config keeps its secrets
	if v := cfg.ODFI.SFTP.Password; v != "secret" {
		t.Errorf("original config was modified: %q", v)
	}
}

func TestConfigRoute__maskPassword(t *testing.T) {
	if v := maskPassword(""); v != "**" {
		t.Errorf("got %q", v)
	}
	if v := maskPassword("ab"); v != "**" {
		t.Errorf("got %q", v)
	}
	if v := maskPassword("password"); v != "p******d" {
		t.Errorf("got %q", v)
	}
}

func TestConfigRoute__disabled(t *testing.T) {
	cfg := config.Empty()
	cfg.Admin.DisableConfigEndpoint = true

	svc := testclient.Admin(t)
	RegisterRoutes(svc, cfg)

	resp, err := http.DefaultClient.Get("http://" + svc.BindAddr() + "/config")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("bogus HTTP status: %s", resp.Status)
	}
}
