// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package notify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sweep-io/sweep/pkg/config"

	"github.com/PagerDuty/go-pagerduty"
)

type PagerDuty struct {
	client     *pagerduty.Client
	routingKey string
}

func NewPagerDuty(cfg *config.PagerDuty) (*PagerDuty, error) {
	if cfg == nil {
		return nil, errors.New("missing pagerduty config")
	}
	notifier := &PagerDuty{
		client:     pagerduty.NewClient(cfg.ApiKey),
		routingKey: cfg.RoutingKey,
	}
	return notifier, notifier.Ping()
}

func (pd *PagerDuty) Ping() error {
	if pd == nil || pd.client == nil {
		return errors.New("pagerduty: nil client")
	}

	resp, err := pd.client.ListAbilities()
	if err != nil {
		return fmt.Errorf("pagerduty list abilities: %v", err)
	}
	if len(resp.Abilities) <= 0 {
		return errors.New("pagerduty: missing abilities")
	}
	return nil
}

func (pd *PagerDuty) Info(msg *Message) error {
	return pd.sendEvent("info", msg)
}

func (pd *PagerDuty) Critical(msg *Message) error {
	return pd.sendEvent("critical", msg)
}

func (pd *PagerDuty) sendEvent(severity string, msg *Message) error {
	event := pagerduty.V2Event{
		RoutingKey: pd.routingKey,
		Action:     "trigger",
		Payload: &pagerduty.V2Payload{
			Source:   "sweep",
			Severity: severity,
			Summary:  fmt.Sprintf("savings run %s: %s", msg.Status, msg.Message),
			Details: map[string]interface{}{
				"amount":      msg.Amount,
				"transfer_id": msg.TransferID,
				"verified":    fmt.Sprintf("%v", msg.Verified),
			},
		},
	}
	resp, err := pagerduty.ManageEvent(event)
	if err != nil {
		return fmt.Errorf("pagerduty: %v", err)
	}
	if !strings.EqualFold(resp.Status, "success") {
		return fmt.Errorf("pagerduty: status=%s message=%s", resp.Status, resp.Message)
	}
	return nil
}
