// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package savings

import (
	"fmt"
	"strings"
	"time"

	"github.com/sweep-io/sweep/pkg/capitalone"
	"github.com/sweep-io/sweep/pkg/id"
	"github.com/sweep-io/sweep/pkg/model"
	"github.com/sweep-io/sweep/x/mask"

	"github.com/go-kit/kit/log"
)

// WeeklyActivity summarizes the checking account's trailing week of
// transactions. It decorates notifications only, so building one can fail
// without touching the run's Outcome.
type WeeklyActivity struct {
	TransactionCount int
	TotalCredits     *model.Amount
	TotalDebits      *model.Amount
}

// weeklyActivity reads the past seven days of checking transactions. Any
// problem degrades the report to nil instead of surfacing an error.
func weeklyActivity(logger log.Logger, client capitalone.Client, account id.Account, now time.Time) *WeeklyActivity {
	start := now.AddDate(0, 0, -7)

	transactions, err := client.GetTransactions(account, start, now)
	if err != nil {
		logger.Log("savings", fmt.Sprintf("skipping activity report for account %s: %v", mask.AccountNumber(account.String()), err))
		return nil
	}

	var credits, debits []string
	for i := range transactions {
		amount := fmt.Sprintf("USD %s", transactions[i].Amount)
		switch strings.ToLower(transactions[i].Type) {
		case "credit":
			credits = append(credits, amount)
		case "debit":
			debits = append(debits, amount)
		}
	}

	totalCredits, err := model.SumAmounts(credits...)
	if err != nil {
		logger.Log("savings", fmt.Sprintf("skipping activity report: bad credit amount: %v", err))
		return nil
	}
	totalDebits, err := model.SumAmounts(debits...)
	if err != nil {
		logger.Log("savings", fmt.Sprintf("skipping activity report: bad debit amount: %v", err))
		return nil
	}

	return &WeeklyActivity{
		TransactionCount: len(transactions),
		TotalCredits:     totalCredits,
		TotalDebits:      totalDebits,
	}
}
