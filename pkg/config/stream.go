// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package config

import (
	"errors"
)

// Stream configures where run outcomes are published. With both fields nil
// nothing is published.
type Stream struct {
	InMem *InMemStream
	Kafka *KafkaStream
}

func (cfg *Stream) Validate() error {
	if cfg == nil {
		return nil
	}
	if cfg.InMem != nil && cfg.InMem.URL == "" {
		return errors.New("inmem: missing stream url")
	}
	if k := cfg.Kafka; k != nil {
		if len(k.Brokers) == 0 || k.Group == "" || k.Topic == "" {
			return errors.New("kafka: missing brokers, group, or topic")
		}
	}
	return nil
}

type InMemStream struct {
	URL string
}

type KafkaStream struct {
	Brokers []string
	Group   string
	Topic   string
}
