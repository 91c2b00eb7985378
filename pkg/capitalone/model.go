// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package capitalone

import (
	"errors"
	"time"

	"github.com/sweep-io/sweep/pkg/model"
	"github.com/sweep-io/sweep/pkg/util"
)

// Transfer statuses reported by the Capital One API. Anything else is
// treated as unknown and non-terminal.
const (
	TransferPending   = "pending"
	TransferCompleted = "completed"
	TransferFailed    = "failed"
)

// Account is the read model of one bank account. Monetary fields are
// fixed-point strings as they appear on the wire.
type Account struct {
	AccountID        string `json:"accountId"`
	Name             string `json:"name"`
	Status           string `json:"status"`
	Currency         string `json:"currency"`
	Balance          string `json:"balance"`
	AvailableBalance string `json:"availableBalance"`
}

// AvailableAmount parses the account's available balance for comparisons.
func (a *Account) AvailableAmount() (*model.Amount, error) {
	if a == nil {
		return nil, errors.New("nil Account")
	}
	return model.NewAmount(util.Or(a.Currency, "USD"), a.AvailableBalance)
}

// TransferInitiation is the backend's acceptance of a transfer request.
// Acceptance does not imply settlement.
type TransferInitiation struct {
	TransferID string    `json:"transferId"`
	Status     string    `json:"status"`
	Amount     string    `json:"amount"`
	Created    time.Time `json:"created"`
}

// Transfer is the authoritative status of an initiated transfer.
type Transfer struct {
	TransferID string    `json:"transferId"`
	Status     string    `json:"status"`
	Amount     string    `json:"amount"`
	Created    time.Time `json:"created"`
}

// Transaction is one posted checking account transaction.
type Transaction struct {
	TransactionID string    `json:"transactionId"`
	Description   string    `json:"description"`
	Type          string    `json:"type"` // credit or debit
	Amount        string    `json:"amount"`
	PostedAt      time.Time `json:"postedAt"`
}

type transactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

// transferRequest is the initiation payload. Amount is serialized as a
// fixed-point string, never a binary float.
type transferRequest struct {
	SourceAccountID      string `json:"sourceAccountId"`
	DestinationAccountID string `json:"destinationAccountId"`
	Amount               string `json:"amount"`
}
