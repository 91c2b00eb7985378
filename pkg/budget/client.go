// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package budget reads weekly analysis results from the external budget
// service. A completed analysis with a non-negative total variance is the
// surplus Sweep moves into savings.
package budget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sweep-io/sweep/pkg/model"
	"github.com/sweep-io/sweep/pkg/util"

	"github.com/go-kit/kit/log"
	"github.com/shopspring/decimal"
)

// Analysis statuses reported by the budget service.
const (
	AnalysisCompleted = "completed"
	AnalysisFailed    = "failed"
)

// Analysis is one budget period's result. TotalVariance is budgeted minus
// actual spending, so a positive value is money left over.
type Analysis struct {
	Status        string          `json:"status"`
	TotalVariance decimal.Decimal `json:"total_variance"`
	Currency      string          `json:"currency,omitempty"`
	PeriodStart   string          `json:"period_start,omitempty"`
	PeriodEnd     string          `json:"period_end,omitempty"`
}

// SurplusAmount converts the variance into a currency amount. Sub-cent
// precision is truncated so a transfer never exceeds the surplus.
func (a *Analysis) SurplusAmount() (*model.Amount, error) {
	if a == nil {
		return nil, errors.New("nil Analysis")
	}
	cents := a.TotalVariance.Shift(2).Truncate(0).IntPart()
	if cents < 0 {
		return nil, fmt.Errorf("negative variance: %v", a.TotalVariance)
	}
	return model.NewAmountFromInt(util.Or(a.Currency, "USD"), int(cents))
}

type Client interface {
	Ping() error
	LatestAnalysis() (*Analysis, error)
}

// NewClient builds a Client against the budget service at endpoint. A nil
// httpClient gets a default with a conservative timeout.
func NewClient(logger log.Logger, endpoint string, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	logger.Log("budget", fmt.Sprintf("using %s for budget address", endpoint))

	return &apiClient{
		logger:     logger,
		endpoint:   endpoint,
		underlying: httpClient,
	}
}

type apiClient struct {
	logger     log.Logger
	endpoint   string
	underlying *http.Client
}

func (c *apiClient) Ping() error {
	ctx, cancelFn := context.WithTimeout(context.TODO(), 10*time.Second)
	defer cancelFn()

	req, err := http.NewRequest("GET", fmt.Sprintf("%s/ping", c.endpoint), nil)
	if err != nil {
		return fmt.Errorf("budget Ping: %v", err)
	}

	resp, err := c.underlying.Do(req.WithContext(ctx))
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if resp == nil || err != nil {
		return fmt.Errorf("budget Ping: failed: %v", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("budget Ping: got status: %s", resp.Status)
	}
	return nil
}

// LatestAnalysis reads the most recent budget analysis. A 404 means no
// analysis exists yet and returns nil without an error.
func (c *apiClient) LatestAnalysis() (*Analysis, error) {
	ctx, cancelFn := context.WithTimeout(context.TODO(), 10*time.Second)
	defer cancelFn()

	req, err := http.NewRequest("GET", fmt.Sprintf("%s/analyses/latest", c.endpoint), nil)
	if err != nil {
		return nil, fmt.Errorf("latest analysis: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.underlying.Do(req.WithContext(ctx))
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if resp == nil || err != nil {
		return nil, fmt.Errorf("latest analysis: failed: %v", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("latest analysis: status=%s", resp.Status)
	}

	var analysis Analysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, fmt.Errorf("latest analysis: malformed response: %v", err)
	}
	return &analysis, nil
}
