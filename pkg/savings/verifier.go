// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package savings

import (
	"fmt"
	"time"

	"github.com/sweep-io/sweep/pkg/capitalone"
	"github.com/sweep-io/sweep/pkg/config"
	"github.com/sweep-io/sweep/pkg/id"

	"github.com/go-kit/kit/log"
)

// Verifier confirms settlement of an initiated transfer.
type Verifier interface {
	// Verify reports true only when the bank confirms the transfer
	// completed. Anything ambiguous (pending, unknown statuses, transport
	// errors) is reported as false once the attempt budget runs out.
	Verify(transferID id.Transfer) bool
}

func NewVerifier(logger log.Logger, client capitalone.Client, cfg config.Verification) Verifier {
	return &poller{
		logger:   logger,
		client:   client,
		attempts: cfg.Attempts,
		interval: cfg.Interval,
	}
}

type poller struct {
	logger log.Logger
	client capitalone.Client

	attempts int
	interval time.Duration
}

func (p *poller) Verify(transferID id.Transfer) bool {
	for attempt := 1; attempt <= p.attempts; attempt++ {
		transfer, err := p.client.GetTransfer(transferID)
		if err != nil {
			p.logger.Log("verifier", fmt.Sprintf("status read %d of %d failed: %v", attempt, p.attempts, err), "transferID", transferID)
		} else if !transferID.Equal(transfer.TransferID) {
			// a response describing another transfer can't settle this one
			p.logger.Log("verifier", fmt.Sprintf("status read %d of %d described transfer %s", attempt, p.attempts, transfer.TransferID), "transferID", transferID)
		} else {
			switch transfer.Status {
			case capitalone.TransferCompleted:
				return true

			case capitalone.TransferFailed:
				// terminal, further polling won't change the answer
				p.logger.Log("verifier", "transfer failed at the bank", "transferID", transferID)
				return false

			default:
				p.logger.Log("verifier", fmt.Sprintf("status read %d of %d: %s", attempt, p.attempts, transfer.Status), "transferID", transferID)
			}
		}
		if attempt < p.attempts {
			time.Sleep(p.interval)
		}
	}
	return false
}
