// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io/ioutil"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/moov-io/onus/pkg/config"
	"github.com/moov-io/onus/pkg/model"

	mail "github.com/ory/mail/v3"
)

type Email struct {
	cfg    *config.Email
	dialer *mail.Dialer
}

type EmailTemplateData struct {
	CompanyName string // e.g. Moov
	Filename    string // e.g. 20200529-131400.ach

	EntriesExtracted int
	HoldsStaged      int
	SettlementTotal  *model.Amount
}

var (
	// Ensure the default template validates against our data struct
	_ = config.DefaultEmailTemplate.Execute(ioutil.Discard, EmailTemplateData{})
)

func NewEmail(cfg *config.Email) (*Email, error) {
	dialer, err := setupGoMailClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Email{
		cfg:    cfg,
		dialer: dialer,
	}, nil
}

func (mailer *Email) Info(msg *Message) error {
	contents, err := marshalEmail(mailer.cfg, msg)
	if err != nil {
		return err
	}
	return sendEmail(mailer.cfg, mailer.dialer, fmt.Sprintf("%s processed", msg.Filename), contents)
}

func (mailer *Email) Critical(msg *Message) error {
	contents := marshalMessage(failed, msg)
	return sendEmail(mailer.cfg, mailer.dialer, fmt.Sprintf("%s failed", msg.Filename), contents)
}

func marshalEmail(cfg *config.Email, msg *Message) (string, error) {
	data := EmailTemplateData{
		CompanyName:      cfg.CompanyName,
		Filename:         msg.Filename,
		EntriesExtracted: msg.EntriesExtracted,
		HoldsStaged:      msg.HoldsStaged,
		SettlementTotal:  msg.SettlementTotal,
	}

	var buf bytes.Buffer
	if err := cfg.Tmpl().Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func sendEmail(cfg *config.Email, dialer *mail.Dialer, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", cfg.To...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return dialer.DialAndSend(context.Background(), m)
}

func setupGoMailClient(cfg *config.Email) (*mail.Dialer, error) {
	if cfg == nil {
		return nil, errors.New("missing email config")
	}

	uri, err := url.Parse(cfg.ConnectionURI)
	if err != nil {
		return nil, err
	}
	host, portStr, err := net.SplitHostPort(uri.Host)
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{
		ServerName: host,
	}
	if skip := uri.Query().Get("insecure_skip_verify"); strings.EqualFold(skip, "true") {
		tlsConfig.InsecureSkipVerify = true // the test and local dev servers are self-signed
	}

	password, _ := uri.User.Password()

	return &mail.Dialer{
		TLSConfig: tlsConfig,
		Host:      host,
		Port:      port,
		Username:  uri.User.Username(),
		Password:  password,
		SSL:       strings.EqualFold(uri.Scheme, "smtps"),
	}, nil
}
