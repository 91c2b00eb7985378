// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package savings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sweep-io/sweep/pkg/config"
	"github.com/sweep-io/sweep/pkg/stream"

	"gocloud.dev/pubsub"
)

// Publisher pushes each run's Outcome onto a stream (kafka, or in-memory for
// local development) so other systems can react without polling our HTTP API.
type Publisher interface {
	Publish(outcome *Outcome) error
	Shutdown(ctx context.Context)
}

// NewPublisher builds the Publisher matching cfg. A nil config means
// outcomes are recorded but not published anywhere.
func NewPublisher(cfg *config.Stream) (Publisher, error) {
	if cfg == nil {
		return &nopPublisher{}, nil
	}
	topic, err := stream.OpenTopic(context.TODO(), cfg)
	if err != nil {
		return nil, err
	}
	return &streamPublisher{topic: topic}, nil
}

type streamPublisher struct {
	topic *pubsub.Topic
}

func (pub *streamPublisher) Publish(outcome *Outcome) error {
	if outcome == nil {
		return errors.New("nil Outcome")
	}
	body, err := json.Marshal(outcome)
	if err != nil {
		return err
	}
	msg := &pubsub.Message{
		Body: body,
		Metadata: map[string]string{
			"runID":  outcome.RunID.String(),
			"status": string(outcome.Status),
		},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return pub.topic.Send(ctx, msg)
}

func (pub *streamPublisher) Shutdown(ctx context.Context) {
	if pub.topic != nil {
		pub.topic.Shutdown(ctx)
	}
}

type nopPublisher struct{}

func (p *nopPublisher) Publish(outcome *Outcome) error { return nil }

func (p *nopPublisher) Shutdown(ctx context.Context) {}
