// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package stream

import (
	"context"
	"testing"

	"gocloud.dev/pubsub"
)

func TestStream(t *testing.T) {
	topicURL := "mem://extractions"
	ctx := context.Background()

	topic, err := Topic(ctx, topicURL)
	if err != nil {
		t.Fatal(err)
	}
	defer topic.Shutdown(ctx)

	sub, err := Subscription(ctx, topicURL)
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Shutdown(ctx)

	err = topic.Send(ctx, &pubsub.Message{
		Body: []byte(`{"runID":"run123","status":"success"}`),
		Metadata: map[string]string{
			"runID": "run123",
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	msg, err := sub.Receive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	msg.Ack()

	if v := string(msg.Body); v != `{"runID":"run123","status":"success"}` {
		t.Errorf("got %q", v)
	}
	if v := msg.Metadata["runID"]; v != "run123" {
		t.Errorf("metadata runID=%q", v)
	}
}

func TestStream__unknownScheme(t *testing.T) {
	ctx := context.Background()

	if _, err := Topic(ctx, "unknown://extractions"); err == nil {
		t.Error("expected error")
	}
	if _, err := Subscription(ctx, "unknown://extractions"); err == nil {
		t.Error("expected error")
	}
}
