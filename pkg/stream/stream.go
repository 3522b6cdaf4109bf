// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package stream wraps gocloud.dev/pubsub so callers get one import for
// opening topics and subscriptions along with the registered drivers.
// Run summaries are published over these topics after each extraction.
//
//  - https://gocloud.dev/howto/pubsub/publish/
//  - https://gocloud.dev/howto/pubsub/subscribe/
//
// The mem:// scheme is registered for in-process pipelines and tests,
// Kafka through the helpers below.
package stream

import (
	"context"

	"github.com/Shopify/sarama"
	"gocloud.dev/pubsub"
	"gocloud.dev/pubsub/kafkapubsub"
	_ "gocloud.dev/pubsub/mempubsub"
)

// Topic opens the topic a URL points at, e.g. "mem://extractions".
func Topic(ctx context.Context, url string) (*pubsub.Topic, error) {
	return pubsub.OpenTopic(ctx, url)
}

// Subscription opens the subscription a URL points at.
func Subscription(ctx context.Context, url string) (*pubsub.Subscription, error) {
	return pubsub.OpenSubscription(ctx, url)
}

// KafkaTopic returns a pubsub.Topic sending over a sarama.SyncProducer.
// Producer options come from the Producer section of the sarama.Config and
// Config.Producer.Return.Success must be set to true.
//
// See https://godoc.org/github.com/Shopify/sarama#Config
func KafkaTopic(brokers []string, config *sarama.Config, topicName string, opts *kafkapubsub.TopicOptions) (*pubsub.Topic, error) {
	return kafkapubsub.OpenTopic(brokers, config, topicName, opts)
}

// KafkaSubscription returns a pubsub.Subscription which joins group and
// receives messages from topics through a sarama.ConsumerGroup.
func KafkaSubscription(brokers []string, config *sarama.Config, group string, topics []string, opts *kafkapubsub.SubscriptionOptions) (*pubsub.Subscription, error) {
	return kafkapubsub.OpenSubscription(brokers, config, group, topics, opts)
}
