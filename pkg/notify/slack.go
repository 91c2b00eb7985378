// Copyright 2020 The Sweep Authors
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

	"github.com/sweep-io/sweep/pkg/config"
)

type Slack struct {
	webhookURL string
	client     *http.Client
}

func NewSlack(cfg *config.Slack) (*Slack, error) {
	if cfg == nil || cfg.WebhookURL == "" {
		return nil, errors.New("missing slack webhook url")
	}
	return &Slack{
		webhookURL: strings.TrimSpace(cfg.WebhookURL),
		client:     &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type runSeverity string

const (
	info     runSeverity = "info"
	critical runSeverity = "critical"
)

func (s *Slack) Info(msg *Message) error {
	body := marshalSlackMessage(info, msg)
	return s.send(body)
}

func (s *Slack) Critical(msg *Message) error {
	body := marshalSlackMessage(critical, msg)
	return s.send(body)
}

func marshalSlackMessage(severity runSeverity, msg *Message) string {
	body := fmt.Sprintf("savings run %s: %s", msg.Status, msg.Message)
	if severity == critical {
		body = "ALERT " + body
	}
	if msg.TransferID != "" {
		body += fmt.Sprintf("\namount: %s transfer: %s verified: %v", msg.Amount, msg.TransferID, msg.Verified)
	}
	if msg.TransactionCount > 0 {
		body += fmt.Sprintf("\nchecking activity: %d transactions, %s in credits, %s in debits",
			msg.TransactionCount, msg.TotalCredits, msg.TotalDebits)
	}
	return body
}

type webhook struct {
	Text string `json:"text"`
}

func (s *Slack) send(body string) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(webhook{Text: body}); err != nil {
		return err
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", &buf)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if resp == nil || err != nil {
		return fmt.Errorf("slack send: %v", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("slack send: status=%s", resp.Status)
	}
	return nil
}
