// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package notify delivers savings run outcomes to operators over email,
// PagerDuty, and Slack. Senders fan out through MultiSender so one failing
// channel doesn't silence the rest.
//
// Account identifiers must be masked before they're placed in a Message.
package notify

type Message struct {
	Status  string // success, error, no_transfer
	Message string

	Amount     string
	TransferID string
	Verified   bool

	// Checking account activity over the run's trailing week
	TransactionCount int
	TotalCredits     string
	TotalDebits      string
}

type Sender interface {
	Info(msg *Message) error
	Critical(msg *Message) error
}
