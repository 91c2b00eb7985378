// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package capitalone is the transport layer in front of the Capital One
// API. It signs requests with bearer tokens from an auth.TokenService,
// retries transport failures exactly once with the request body and
// X-Idempotency-Key replayed, and normalizes every failure into an
// ApiError tagged with the operation that produced it.
//
// Well-formed error responses from the backend (HTTP 4xx/5xx) are never
// retried. They are terminal for that call.
package capitalone

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sweep-io/sweep/pkg/auth"
	"github.com/sweep-io/sweep/pkg/config"
	"github.com/sweep-io/sweep/pkg/id"
	"github.com/sweep-io/sweep/pkg/model"
	"github.com/sweep-io/sweep/pkg/util"
	"github.com/sweep-io/sweep/x/mask"
	"github.com/sweep-io/sweep/x/trace"

	"github.com/go-kit/kit/log"
	"github.com/moov-io/base"
)

// ServiceName keys Capital One credentials in the auth.TokenService.
const ServiceName = "capital-one"

// Operation names carried on ApiError envelopes.
const (
	OperationGetAccountDetails = "get_account_details"
	OperationInitiateTransfer  = "initiate_transfer"
	OperationGetTransferStatus = "get_transfer_status"
	OperationGetTransactions   = "get_transactions"
)

// retryInterval is the fixed backoff before the single transport-level retry.
const retryInterval = 250 * time.Millisecond

// ApiError is the normalized error envelope every operation returns.
// Transport failures and backend error responses both surface this way so
// callers can classify on Operation without unwrapping transport errors.
type ApiError struct {
	Operation string
	Message   string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("operation=%s: %s", e.Operation, e.Message)
}

type Client interface {
	Ping() error
	Authenticate() bool

	GetAccount(acctID id.Account) (*Account, error)
	InitiateTransfer(amount model.Amount, source id.Account, destination id.Account) (*TransferInitiation, error)
	GetTransfer(transferID id.Transfer) (*Transfer, error)
	GetTransactions(acctID id.Account, start time.Time, end time.Time) ([]Transaction, error)
}

// NewClient builds a Client against cfg.BaseAddress. A nil httpClient gets
// a default with the configured timeout applied.
func NewClient(logger log.Logger, cfg config.CapitalOne, tokens auth.TokenService, httpClient *http.Client) Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger.Log("capitalone", fmt.Sprintf("using %s for Capital One address", cfg.BaseAddress))

	return &apiClient{
		logger:          logger,
		baseAddress:     cfg.BaseAddress,
		checkingAccount: id.Account(cfg.Accounts.Checking),
		tokens:          tokens,
		underlying:      httpClient,
	}
}

type apiClient struct {
	logger          log.Logger
	baseAddress     string
	checkingAccount id.Account
	tokens          auth.TokenService
	underlying      *http.Client
}

// Ping is a lightweight connectivity probe: authenticate and perform one
// read-only account fetch.
func (c *apiClient) Ping() error {
	if ok := c.Authenticate(); !ok {
		return errors.New("capital one: authentication failed")
	}
	if _, err := c.GetAccount(c.checkingAccount); err != nil {
		return fmt.Errorf("capital one: %v", err)
	}
	return nil
}

// Authenticate obtains or refreshes the bearer credential. It reports
// false on any failure and never panics so callers can gate workflows
// on the result alone.
func (c *apiClient) Authenticate() bool {
	if err := c.tokens.Authenticate(ServiceName); err != nil {
		c.logger.Log("capitalone", fmt.Sprintf("authentication failed: %v", err))
		return false
	}
	return true
}

func (c *apiClient) GetAccount(acctID id.Account) (*Account, error) {
	req, err := http.NewRequest("GET", fmt.Sprintf("%s/accounts/%s", c.baseAddress, acctID), nil)
	if err != nil {
		return nil, apiError(OperationGetAccountDetails, err.Error())
	}

	resp, err := c.do(OperationGetAccountDetails, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(OperationGetAccountDetails, resp); err != nil {
		return nil, err
	}

	var account Account
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, apiError(OperationGetAccountDetails, fmt.Sprintf("malformed response: %v", err))
	}
	return &account, nil
}

func (c *apiClient) InitiateTransfer(amount model.Amount, source id.Account, destination id.Account) (*TransferInitiation, error) {
	body, err := json.Marshal(transferRequest{
		SourceAccountID:      source.String(),
		DestinationAccountID: destination.String(),
		Amount:               amount.Number(),
	})
	if err != nil {
		return nil, apiError(OperationInitiateTransfer, err.Error())
	}

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/transfers", c.baseAddress), bytes.NewReader(body))
	if err != nil {
		return nil, apiError(OperationInitiateTransfer, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(OperationInitiateTransfer, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(OperationInitiateTransfer, resp); err != nil {
		return nil, err
	}

	var initiation TransferInitiation
	if err := json.NewDecoder(resp.Body).Decode(&initiation); err != nil {
		return nil, apiError(OperationInitiateTransfer, fmt.Sprintf("malformed response: %v", err))
	}

	c.logger.Log(
		"capitalone", fmt.Sprintf("initiated transfer %s", initiation.TransferID),
		"amount", amount.Number(),
		"source", mask.AccountNumber(source.String()),
		"destination", mask.AccountNumber(destination.String()))

	return &initiation, nil
}

func (c *apiClient) GetTransfer(transferID id.Transfer) (*Transfer, error) {
	req, err := http.NewRequest("GET", fmt.Sprintf("%s/transfers/%s", c.baseAddress, transferID), nil)
	if err != nil {
		return nil, apiError(OperationGetTransferStatus, err.Error())
	}

	resp, err := c.do(OperationGetTransferStatus, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(OperationGetTransferStatus, resp); err != nil {
		return nil, err
	}

	var transfer Transfer
	if err := json.NewDecoder(resp.Body).Decode(&transfer); err != nil {
		return nil, apiError(OperationGetTransferStatus, fmt.Sprintf("malformed response: %v", err))
	}
	return &transfer, nil
}

func (c *apiClient) GetTransactions(acctID id.Account, start time.Time, end time.Time) ([]Transaction, error) {
	address := fmt.Sprintf("%s/accounts/%s/transactions?startDate=%s&endDate=%s",
		c.baseAddress, acctID, start.Format(util.YYMMDDTimeFormat), end.Format(util.YYMMDDTimeFormat))

	req, err := http.NewRequest("GET", address, nil)
	if err != nil {
		return nil, apiError(OperationGetTransactions, err.Error())
	}

	resp, err := c.do(OperationGetTransactions, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(OperationGetTransactions, resp); err != nil {
		return nil, err
	}

	var wrapper transactionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return nil, apiError(OperationGetTransactions, fmt.Sprintf("malformed response: %v", err))
	}
	return wrapper.Transactions, nil
}

// do executes one logical request. A transport failure (connection refused,
// timeout) is retried exactly once after a short fixed backoff with the body
// and X-Idempotency-Key replayed so the backend can de-duplicate. Any HTTP
// response, success or error, is terminal for the call.
func (c *apiClient) do(operation string, req *http.Request) (*http.Response, error) {
	token, err := c.tokens.GetToken(ServiceName)
	if err != nil {
		return nil, apiError(operation, fmt.Sprintf("missing bearer token: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if req.Header.Get("X-Idempotency-Key") == "" {
		req.Header.Set("X-Idempotency-Key", base.ID())
	}

	span := trace.GlobalTracer().StartSpan(operation)
	defer span.Finish()
	req = trace.DecorateHttpRequest(req, span)

	resp, err := c.underlying.Do(req)
	if err == nil {
		return resp, nil
	}

	c.logger.Log("capitalone", fmt.Sprintf("retrying %s after transport error: %v", operation, err))
	time.Sleep(retryInterval)

	retry, err := replayRequest(req)
	if err != nil {
		return nil, apiError(operation, fmt.Sprintf("unable to replay request: %v", err))
	}
	resp, err = c.underlying.Do(retry)
	if err != nil {
		return nil, apiError(operation, fmt.Sprintf("transport error: %v", err))
	}
	return resp, nil
}

// replayRequest clones req for the retry, rewinding the body from GetBody
// when one was sent.
func replayRequest(req *http.Request) (*http.Request, error) {
	out := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		out.Body = body
	}
	return out, nil
}

func checkStatus(operation string, resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}
	return apiError(operation, fmt.Sprintf("status=%s", resp.Status))
}

func apiError(operation string, message string) *ApiError {
	clientErrors.With("operation", operation).Add(1)
	return &ApiError{Operation: operation, Message: message}
}
