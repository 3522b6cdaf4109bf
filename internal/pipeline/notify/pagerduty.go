// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package notify

import (
	"errors"

	"github.com/moov-io/onus/pkg/config"

	"github.com/PagerDuty/go-pagerduty"
)

type PagerDuty struct {
	// routingKey is an Events API v2 integration key
	routingKey string
}

func NewPagerDuty(cfg *config.PagerDuty) (*PagerDuty, error) {
	if cfg == nil || cfg.ApiKey == "" {
		return nil, errors.New("missing pagerduty api key")
	}
	return &PagerDuty{
		routingKey: cfg.ApiKey,
	}, nil
}

func (pd *PagerDuty) Info(msg *Message) error {
	return pd.send("info", success, msg)
}

func (pd *PagerDuty) Critical(msg *Message) error {
	return pd.send("critical", failed, msg)
}

func (pd *PagerDuty) send(severity string, status runStatus, msg *Message) error {
	_, err := pagerduty.ManageEvent(pagerduty.V2Event{
		RoutingKey: pd.routingKey,
		Action:     "trigger",
		Payload: &pagerduty.V2Payload{
			Summary:  marshalMessage(status, msg),
			Source:   "onus",
			Severity: severity,
		},
	})
	return err
}
