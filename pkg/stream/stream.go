// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package stream opens gocloud.dev/pubsub topics and subscriptions from our
// config. The in-memory implementation backs local development and tests
// while kafka backs deployed environments.
//
//  - https://gocloud.dev/howto/pubsub/publish/
//  - https://gocloud.dev/howto/pubsub/subscribe/
package stream

import (
	"context"
	"errors"

	"github.com/sweep-io/sweep/pkg/config"

	"github.com/Shopify/sarama"
	"gocloud.dev/pubsub"
	"gocloud.dev/pubsub/kafkapubsub"
	_ "gocloud.dev/pubsub/mempubsub"
)

// OpenTopic returns the pubsub.Topic cfg describes.
func OpenTopic(ctx context.Context, cfg *config.Stream) (*pubsub.Topic, error) {
	switch {
	case cfg == nil:
		return nil, errors.New("missing stream config")
	case cfg.InMem != nil:
		return pubsub.OpenTopic(ctx, cfg.InMem.URL)
	case cfg.Kafka != nil:
		return kafkaTopic(cfg.Kafka)
	}
	return nil, errors.New("unknown stream config")
}

// OpenSubscription returns a pubsub.Subscription reading the topic cfg
// describes. Kafka consumers join cfg.Kafka.Group.
func OpenSubscription(ctx context.Context, cfg *config.Stream) (*pubsub.Subscription, error) {
	switch {
	case cfg == nil:
		return nil, errors.New("missing stream config")
	case cfg.InMem != nil:
		return pubsub.OpenSubscription(ctx, cfg.InMem.URL)
	case cfg.Kafka != nil:
		k := cfg.Kafka
		return kafkapubsub.OpenSubscription(k.Brokers, sarama.NewConfig(), k.Group, []string{k.Topic}, nil)
	}
	return nil, errors.New("unknown stream config")
}

func kafkaTopic(cfg *config.KafkaStream) (*pubsub.Topic, error) {
	// kafkapubsub sends through a sarama.SyncProducer, which requires
	// Producer.Return.Successes
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	return kafkapubsub.OpenTopic(cfg.Brokers, sc, cfg.Topic, nil)
}
