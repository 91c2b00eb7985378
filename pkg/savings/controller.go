// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package savings

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/moov-io/base"
	"github.com/sweep-io/sweep/pkg/budget"
	"github.com/sweep-io/sweep/pkg/capitalone"
	"github.com/sweep-io/sweep/pkg/config"
	"github.com/sweep-io/sweep/pkg/id"
	"github.com/sweep-io/sweep/pkg/model"
	"github.com/sweep-io/sweep/pkg/notify"
	"github.com/sweep-io/sweep/pkg/util"
	"github.com/sweep-io/sweep/x/schedule"

	"github.com/go-kit/kit/log"
)

// runRequest asks the controller for one savings run. Manual triggers can
// carry a budget analysis override, scheduled runs read the latest one.
type runRequest struct {
	analysis  *budget.Analysis
	requestID string

	// waiter carries the finished Outcome back to a blocked caller. It must
	// be buffered so an abandoned request never stalls the run loop.
	waiter chan *Outcome
}

// Controller owns the run loop. Every run, scheduled or manual, executes on
// a single goroutine so transfers can never overlap.
type Controller struct {
	logger log.Logger

	automator *Automator
	budget    budget.Client
	client    capitalone.Client
	repo      Repository
	publisher Publisher
	notifier  notify.Sender

	checking id.Account

	schedule *schedule.WeeklyTimes
	triggers chan runRequest
}

func NewController(
	logger log.Logger,
	cfg config.Savings,
	accounts config.CapitalOneAccounts,
	automator *Automator,
	budgetClient budget.Client,
	client capitalone.Client,
	repo Repository,
	publisher Publisher,
	notifier notify.Sender,
) (*Controller, error) {
	controller := &Controller{
		logger:    logger,
		automator: automator,
		budget:    budgetClient,
		client:    client,
		repo:      repo,
		publisher: publisher,
		notifier:  notifier,
		checking:  id.Account(accounts.Checking),
		triggers:  make(chan runRequest, 1),
	}
	if cfg.Schedule != nil {
		day, err := config.ParseWeekday(cfg.Schedule.Weekday)
		if err != nil {
			return nil, err
		}
		times, err := schedule.ForWeeklyTimes(cfg.Schedule.Timezone, day, cfg.Schedule.Time)
		if err != nil {
			return nil, fmt.Errorf("schedule: %v", err)
		}
		controller.schedule = times

		logger.Log("savings", fmt.Sprintf("weekly run scheduled for %s at %s (%s)", cfg.Schedule.Weekday, cfg.Schedule.Time, cfg.Schedule.Timezone))
	}
	return controller, nil
}

// Start launches the run loop. The loop exits when ctx is canceled.
func (c *Controller) Start(ctx context.Context) {
	go c.run(ctx)
}

// Trigger asks the run loop for a savings run and returns a channel carrying
// the finished Outcome. The channel is buffered so callers can give up
// waiting without blocking the loop.
func (c *Controller) Trigger(analysis *budget.Analysis, requestID string) chan *Outcome {
	waiter := make(chan *Outcome, 1)
	c.triggers <- runRequest{
		analysis:  analysis,
		requestID: requestID,
		waiter:    waiter,
	}
	return waiter
}

func (c *Controller) run(ctx context.Context) {
	var ticks <-chan time.Time
	if c.schedule != nil {
		ticks = c.schedule.C
	}
	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return

		case tick, ok := <-ticks:
			if !ok {
				ticks = nil
				continue
			}
			c.logger.Log("savings", fmt.Sprintf("starting scheduled run for %s", tick.Format(util.YYMMDDTimeFormat)))
			c.runOnce(runRequest{requestID: base.ID()})

		case req := <-c.triggers:
			c.runOnce(req)
		}
	}
}

func (c *Controller) shutdown() {
	if c.schedule != nil {
		c.schedule.Stop()
	}
	if c.publisher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.publisher.Shutdown(ctx)
	}
	c.logger.Log("savings", "controller shutdown")
}

func (c *Controller) runOnce(req runRequest) {
	requestID := util.Or(req.requestID, base.ID())

	analysis := req.analysis
	if analysis == nil {
		latest, err := c.budget.LatestAnalysis()
		if err != nil {
			// Treated the same as no analysis at all, the run ends no_transfer.
			c.logger.Log("savings", fmt.Sprintf("problem reading latest budget analysis: %v", err), "requestID", requestID)
		} else {
			analysis = latest
		}
	}

	outcome := c.automator.ExecuteTransfer(analysis)

	runOutcomes.With("status", string(outcome.Status)).Add(1)
	if tr := outcome.TransferResult; tr != nil {
		if dollars, err := strconv.ParseFloat(tr.Amount, 64); err == nil {
			transferAmounts.Observe(dollars)
		}
	}

	if err := c.repo.RecordRun(outcome); err != nil {
		c.logger.Log("savings", fmt.Sprintf("problem recording run: %v", err), "runID", outcome.RunID, "requestID", requestID)
	}
	if c.publisher != nil {
		if err := c.publisher.Publish(outcome); err != nil {
			c.logger.Log("savings", fmt.Sprintf("problem publishing run: %v", err), "runID", outcome.RunID, "requestID", requestID)
		}
	}
	c.notifyOutcome(outcome)

	if req.waiter != nil {
		req.waiter <- outcome
	}
}

func (c *Controller) notifyOutcome(outcome *Outcome) {
	if c.notifier == nil {
		return
	}

	msg := &notify.Message{
		Status:  string(outcome.Status),
		Message: outcome.Message,
	}
	if tr := outcome.TransferResult; tr != nil {
		msg.Amount = tr.Amount
		if amt, err := model.NewAmount(storedCurrency, tr.Amount); err == nil {
			msg.Amount = amt.String()
		}
		msg.TransferID = tr.TransferID
		msg.Verified = tr.Verified
	}
	if activity := weeklyActivity(c.logger, c.client, c.checking, time.Now()); activity != nil {
		msg.TransactionCount = activity.TransactionCount
		msg.TotalCredits = activity.TotalCredits.Number()
		msg.TotalDebits = activity.TotalDebits.Number()
	}

	var err error
	if needsAttention(outcome) {
		err = c.notifier.Critical(msg)
	} else {
		err = c.notifier.Info(msg)
	}
	if err != nil {
		c.logger.Log("savings", fmt.Sprintf("problem sending notifications: %v", err), "runID", outcome.RunID)
	}
}

// needsAttention reports whether an outcome should page instead of inform.
// Unverified transfers page because money moved without confirmation.
func needsAttention(outcome *Outcome) bool {
	if outcome.Status == StatusError {
		return true
	}
	if tr := outcome.TransferResult; tr != nil && !tr.Verified {
		return true
	}
	return false
}
