// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/moov-io/base/admin"
	"github.com/moov-io/onus/pkg/config"
)

// RegisterRoutes adds an endpoint for reading the running configuration
// off the admin HTTP server. Credentials are masked in the response.
func RegisterRoutes(svc *admin.Server, cfg *config.Config) {
	if cfg.Admin.DisableConfigEndpoint {
		return
	}

	svc.AddHandler("/config", marshalConfig(cfg))
}

func marshalConfig(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(maskedConfig(cfg))
	}
}

// maskedConfig copies cfg with every credential replaced so the rendered
// config never exposes secrets.
func maskedConfig(cfg *config.Config) *config.Config {
	out := *cfg

	if cfg.Database.MySQL != nil {
		mysql := *cfg.Database.MySQL
		mysql.Password = maskPassword(mysql.Password)
		out.Database.MySQL = &mysql
	}
	if cfg.ODFI.FTP != nil {
		ftp := *cfg.ODFI.FTP
		ftp.Password = maskPassword(ftp.Password)
		out.ODFI.FTP = &ftp
	}
	if cfg.ODFI.SFTP != nil {
		sftp := *cfg.ODFI.SFTP
		sftp.Password = maskPassword(sftp.Password)
		sftp.ClientPrivateKey = maskPassword(sftp.ClientPrivateKey)
		out.ODFI.SFTP = &sftp
	}
	if cfg.Holds.Encryption != nil && cfg.Holds.Encryption.Symmetric != nil {
		sym := *cfg.Holds.Encryption.Symmetric
		sym.KeyURI = maskPassword(sym.KeyURI)
		enc := *cfg.Holds.Encryption
		enc.Symmetric = &sym
		out.Holds.Encryption = &enc
	}

	if cfg.Pipeline.PreUpload != nil {
		pre := *cfg.Pipeline.PreUpload
		pre.GPG = maskedGPG(pre.GPG)
		out.Pipeline.PreUpload = &pre
	}
	if cfg.Pipeline.AuditTrail != nil {
		trail := *cfg.Pipeline.AuditTrail
		trail.GPG = maskedGPG(trail.GPG)
		out.Pipeline.AuditTrail = &trail
	}
	if n := cfg.Pipeline.Notifications; n != nil {
		notes := *n
		if n.Email != nil {
			email := *n.Email
			email.ConnectionURI = maskPassword(email.ConnectionURI)
			notes.Email = &email
		}
		if n.PagerDuty != nil {
			pd := *n.PagerDuty
			pd.ApiKey = maskPassword(pd.ApiKey)
			notes.PagerDuty = &pd
		}
		if n.Slack != nil {
			slack := *n.Slack
			slack.WebhookURL = maskPassword(slack.WebhookURL)
			notes.Slack = &slack
		}
		out.Pipeline.Notifications = &notes
	}
	return &out
}

func maskedGPG(cfg *config.GPG) *config.GPG {
	if cfg == nil || cfg.Signer == nil {
		return cfg
	}
	signer := *cfg.Signer
	signer.KeyPassword = maskPassword(signer.KeyPassword)
	out := *cfg
	out.Signer = &signer
	return &out
}

// maskPassword turns 'password' into 'p******d' so operators can verify
// which credential was read without it being exposed.
func maskPassword(s string) string {
	if utf8.RuneCountInString(s) < 3 {
		return "**" // too short, we can't mask anything
	}
	first, last := s[0:1], s[len(s)-1:]
	return fmt.Sprintf("%s%s%s", first, strings.Repeat("*", len(s)-2), last)
}
