// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package notify

import (
	"errors"
	"testing"

	"github.com/moov-io/onus/pkg/config"

	"github.com/stretchr/testify/require"
)

func TestMultiSender(t *testing.T) {
	cfg := config.Empty()
	sender, err := NewMultiSender(cfg.Logger, cfg.Pipeline.Notifications)
	if err != nil {
		t.Fatal(err)
	}

	msg := testMessage(t)

	require.NoError(t, sender.Info(msg))
	require.NoError(t, sender.Critical(msg))

	mock := &MockSender{}
	sender.senders = append(sender.senders, mock)

	require.NoError(t, sender.Info(msg))
	require.NoError(t, sender.Critical(msg))

	require.True(t, mock.InfoWasCalled())
	require.True(t, mock.CriticalWasCalled())
	require.Equal(t, "cutoff-103000.ach", mock.CapturedMessage().Filename)
}

func TestMultiSenderErr(t *testing.T) {
	sendErr := errors.New("bad error")

	cfg := config.Empty()
	sender := &MultiSender{
		logger: cfg.Logger,
		senders: []Sender{
			&MockSender{Err: sendErr},
		},
	}

	msg := testMessage(t)

	require.Equal(t, sender.Info(msg), sendErr)
	require.Equal(t, sender.Critical(msg), sendErr)
}

func TestMultiSender__config(t *testing.T) {
	cfg := config.Empty()

	// a bad sender config fails construction
	_, err := NewMultiSender(cfg.Logger, &config.PipelineNotifications{
		Slack: &config.Slack{},
	})
	require.Error(t, err)

	_, err = NewMultiSender(cfg.Logger, &config.PipelineNotifications{
		PagerDuty: &config.PagerDuty{},
	})
	require.Error(t, err)

	ms, err := NewMultiSender(cfg.Logger, &config.PipelineNotifications{
		Slack: &config.Slack{WebhookURL: "https://hooks.slack.example.com/services/T00/B00/XXXX"},
	})
	require.NoError(t, err)
	require.Len(t, ms.senders, 1)
}
