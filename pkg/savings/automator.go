// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package savings moves each week's budget surplus from a checking account
// into savings. The automator is the only place money movement is decided:
// it validates the surplus, authenticates, verifies both accounts and the
// available balance, initiates one transfer, and then watches for
// settlement. Every run ends in an Outcome, never a raised error.
package savings

import (
	"fmt"
	"time"

	"github.com/moov-io/base"
	"github.com/sweep-io/sweep/pkg/budget"
	"github.com/sweep-io/sweep/pkg/capitalone"
	"github.com/sweep-io/sweep/pkg/config"
	"github.com/sweep-io/sweep/pkg/id"
	"github.com/sweep-io/sweep/pkg/model"
	"github.com/sweep-io/sweep/x/mask"

	"github.com/go-kit/kit/log"
)

// Automator sequences one savings run. Instances are safe to reuse across
// runs but runs themselves must not overlap, the token refresh inside the
// client is the only shared state and it's serialized there.
type Automator struct {
	logger log.Logger

	client   capitalone.Client
	verifier Verifier

	minimum     *model.Amount
	source      id.Account
	destination id.Account
}

func NewAutomator(logger log.Logger, cfg config.Savings, accounts config.CapitalOneAccounts, client capitalone.Client, verifier Verifier) *Automator {
	return &Automator{
		logger:      logger,
		client:      client,
		verifier:    verifier,
		minimum:     cfg.MinimumAmount(),
		source:      id.Account(accounts.Checking),
		destination: id.Account(accounts.Savings),
	}
}

// ExecuteTransfer runs the full sequence against the latest budget analysis.
// The ordering is load-bearing: the surplus is checked before any network
// call, authentication happens before any account read, and initiation is
// attempted at most once per run.
func (a *Automator) ExecuteTransfer(analysis *budget.Analysis) (out *Outcome) {
	runID := id.Run(base.ID())

	defer func() {
		if r := recover(); r != nil {
			out = a.errorOutcome(runID, fmt.Sprintf("An unexpected error occurred during savings automation: %v", r), nil)
		}
	}()

	amount := a.surplus(runID, analysis)
	if !amountEligible(amount, a.minimum) {
		a.logger.Log("savings", "no eligible surplus to transfer", "runID", runID)
		return &Outcome{
			RunID:   runID,
			Status:  StatusNoTransfer,
			Message: "No surplus eligible for transfer",
			Created: time.Now(),
		}
	}

	if !a.client.Authenticate() {
		return a.errorOutcome(runID, "Authentication failed", nil)
	}

	checking, checkingErr := a.client.GetAccount(a.source)
	if checkingErr != nil {
		a.logger.Log("savings", fmt.Sprintf("problem reading account %s: %v", mask.AccountNumber(a.source.String()), checkingErr), "runID", runID)
	}
	savings, savingsErr := a.client.GetAccount(a.destination)
	if savingsErr != nil {
		a.logger.Log("savings", fmt.Sprintf("problem reading account %s: %v", mask.AccountNumber(a.destination.String()), savingsErr), "runID", runID)
	}
	if !accountsVerified(checking, savings) {
		cause := checkingErr
		if cause == nil {
			cause = savingsErr
		}
		return a.errorOutcome(runID, "Account status verification failed", cause)
	}

	if !sufficientFunds(checking, amount) {
		return a.errorOutcome(runID, "Insufficient funds for transfer", nil)
	}

	initiation, err := a.client.InitiateTransfer(*amount, a.source, a.destination)
	if err != nil {
		return a.errorOutcome(runID, "API error initiating transfer", err)
	}
	a.logger.Log("savings", fmt.Sprintf("initiated transfer of %s", amount.String()), "runID", runID, "transferID", initiation.TransferID)

	verified := a.verifier.Verify(id.Transfer(initiation.TransferID))
	if !verified {
		a.logger.Log("savings", "transfer initiated but not verified", "runID", runID, "transferID", initiation.TransferID)
	}

	return &Outcome{
		RunID:   runID,
		Status:  StatusSuccess,
		Message: "Transfer initiated successfully",
		TransferResult: &TransferResult{
			Amount:             amount.Number(),
			TransferID:         initiation.TransferID,
			Verified:           verified,
			TransferSuccessful: verified,
		},
		Created: time.Now(),
	}
}

// surplus derives the transferable amount from a budget analysis. Only a
// completed analysis with a non-negative variance produces an amount.
func (a *Automator) surplus(runID id.Run, analysis *budget.Analysis) *model.Amount {
	if analysis == nil || analysis.Status != budget.AnalysisCompleted {
		return nil
	}
	amount, err := analysis.SurplusAmount()
	if err != nil {
		a.logger.Log("savings", fmt.Sprintf("no usable surplus: %v", err), "runID", runID)
		return nil
	}
	return amount
}

func (a *Automator) errorOutcome(runID id.Run, message string, err error) *Outcome {
	out := &Outcome{
		RunID:   runID,
		Status:  StatusError,
		Message: message,
		Created: time.Now(),
	}
	if err != nil {
		out.Error = err.Error()
	}
	a.logger.Log("savings", fmt.Sprintf("run failed: %s", message), "runID", runID)
	return out
}
