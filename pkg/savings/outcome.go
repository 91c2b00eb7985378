// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package savings

import (
	"time"

	"github.com/sweep-io/sweep/pkg/id"
)

type Status string

const (
	// StatusSuccess means a transfer was initiated and accepted by the bank.
	StatusSuccess Status = "success"

	// StatusError means the run stopped before a transfer could be accepted.
	StatusError Status = "error"

	// StatusNoTransfer means the run finished without moving money because
	// there was no eligible surplus.
	StatusNoTransfer Status = "no_transfer"
)

// Outcome is the terminal record of one savings run. Every run produces
// exactly one Outcome, even when something panics partway through, so
// callers branch on Status rather than handling errors.
type Outcome struct {
	RunID id.Run `json:"run_id"`

	Status  Status `json:"status"`
	Message string `json:"message"`

	// TransferResult is only set once a transfer has been initiated.
	TransferResult *TransferResult `json:"transfer_result,omitempty"`

	// Error carries the underlying cause when Status is StatusError.
	Error string `json:"error,omitempty"`

	Created time.Time `json:"created"`
}

// TransferResult describes the transfer a run initiated.
type TransferResult struct {
	// Amount is the fixed-point quantity moved, e.g. "100.00"
	Amount string `json:"amount"`

	TransferID string `json:"transfer_id"`

	// Verified is true only after the bank reported the transfer completed.
	Verified bool `json:"verified"`

	// TransferSuccessful matches Verified. An unverified transfer is not a
	// failed run since the bank can still settle it after we stop watching.
	TransferSuccessful bool `json:"transfer_successful"`
}
