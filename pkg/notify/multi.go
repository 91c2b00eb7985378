// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package notify

import (
	"fmt"

	"github.com/sweep-io/sweep/pkg/config"

	"github.com/go-kit/kit/log"
)

// MultiSender delivers each Message to every configured Sender. Delivery
// continues past failures and the first error is returned.
type MultiSender struct {
	logger  log.Logger
	senders []Sender
}

func NewMultiSender(logger log.Logger, cfg config.Notifications) (*MultiSender, error) {
	ms := &MultiSender{logger: logger}
	if cfg.Email != nil {
		if err := ms.add(NewEmail(cfg.Email)); err != nil {
			return nil, fmt.Errorf("email: %v", err)
		}
	}
	if cfg.PagerDuty != nil {
		if err := ms.add(NewPagerDuty(cfg.PagerDuty)); err != nil {
			return nil, fmt.Errorf("pagerduty: %v", err)
		}
	}
	if cfg.Slack != nil {
		if err := ms.add(NewSlack(cfg.Slack)); err != nil {
			return nil, fmt.Errorf("slack: %v", err)
		}
	}
	return ms, nil
}

func (ms *MultiSender) add(sender Sender, err error) error {
	if err != nil {
		return err
	}
	ms.senders = append(ms.senders, sender)
	return nil
}

func (ms *MultiSender) Info(msg *Message) error {
	return ms.fanout("Info", msg, Sender.Info)
}

func (ms *MultiSender) Critical(msg *Message) error {
	return ms.fanout("Critical", msg, Sender.Critical)
}

// fanout sends msg through every sender even after one fails.
func (ms *MultiSender) fanout(severity string, msg *Message, send func(Sender, *Message) error) error {
	var firstError error
	for i := range ms.senders {
		if err := send(ms.senders[i], msg); err != nil {
			ms.logger.Log("notify", fmt.Sprintf("%s through %T failed: %v", severity, ms.senders[i], err))

			if firstError == nil {
				firstError = err
			}
		}
	}
	return firstError
}
