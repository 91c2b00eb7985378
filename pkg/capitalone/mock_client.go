// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package capitalone

import (
	"time"

	"github.com/sweep-io/sweep/pkg/id"
	"github.com/sweep-io/sweep/pkg/model"
)

// MockClient counts every call so tests can assert how often each
// operation was reached.
type MockClient struct {
	AuthFailed bool
	PingErr    error

	Accounts   map[id.Account]*Account
	AccountErr error

	Initiation  *TransferInitiation
	InitiateErr error

	Transfer    *Transfer
	TransferErr error

	Transactions    []Transaction
	TransactionsErr error

	AuthenticateCalls int
	GetAccountCalls   int
	InitiateCalls     int
	GetTransferCalls  int
	TransactionCalls  int
}

func (c *MockClient) Ping() error {
	return c.PingErr
}

func (c *MockClient) Authenticate() bool {
	c.AuthenticateCalls++
	return !c.AuthFailed
}

func (c *MockClient) GetAccount(acctID id.Account) (*Account, error) {
	c.GetAccountCalls++
	if c.AccountErr != nil {
		return nil, c.AccountErr
	}
	if acct, exists := c.Accounts[acctID]; exists {
		return acct, nil
	}
	return nil, &ApiError{Operation: OperationGetAccountDetails, Message: "account not found"}
}

func (c *MockClient) InitiateTransfer(amount model.Amount, source id.Account, destination id.Account) (*TransferInitiation, error) {
	c.InitiateCalls++
	if c.InitiateErr != nil {
		return nil, c.InitiateErr
	}
	if c.Initiation != nil {
		return c.Initiation, nil
	}
	return &TransferInitiation{
		TransferID: "mock-transfer-id",
		Status:     TransferPending,
		Amount:     amount.Number(),
		Created:    time.Now(),
	}, nil
}

func (c *MockClient) GetTransfer(transferID id.Transfer) (*Transfer, error) {
	c.GetTransferCalls++
	if c.TransferErr != nil {
		return nil, c.TransferErr
	}
	if c.Transfer != nil {
		return c.Transfer, nil
	}
	return &Transfer{TransferID: transferID.String(), Status: TransferPending}, nil
}

func (c *MockClient) GetTransactions(acctID id.Account, start time.Time, end time.Time) ([]Transaction, error) {
	c.TransactionCalls++
	if c.TransactionsErr != nil {
		return nil, c.TransactionsErr
	}
	return c.Transactions, nil
}
