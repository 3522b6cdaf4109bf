// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/moov-io/onus/pkg/config"
)

type Slack struct {
	client     *http.Client
	webhookURL string
}

func NewSlack(cfg *config.Slack) (*Slack, error) {
	if cfg == nil || strings.TrimSpace(cfg.WebhookURL) == "" {
		return nil, errors.New("missing slack webhook url")
	}
	return &Slack{
		client:     &http.Client{Timeout: 10 * time.Second},
		webhookURL: strings.TrimSpace(cfg.WebhookURL),
	}, nil
}

func (s *Slack) Info(msg *Message) error {
	return s.send(marshalMessage(success, msg))
}

func (s *Slack) Critical(msg *Message) error {
	return s.send(marshalMessage(failed, msg))
}

type webhook struct {
	Text string `json:"text"`
}

func (s *Slack) send(body string) error {
	bs, err := json.Marshal(webhook{Text: body})
	if err != nil {
		return err
	}
	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(bs))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("slack: unexpected status %s", resp.Status)
	}
	return nil
}
