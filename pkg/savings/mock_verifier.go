// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package savings

import (
	"github.com/sweep-io/sweep/pkg/id"
)

type MockVerifier struct {
	Verified bool

	Calls          int
	LastTransferID id.Transfer
}

func (v *MockVerifier) Verify(transferID id.Transfer) bool {
	v.Calls++
	v.LastTransferID = transferID
	return v.Verified
}
