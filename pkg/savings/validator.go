// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package savings

import (
	"github.com/sweep-io/sweep/pkg/capitalone"
	"github.com/sweep-io/sweep/pkg/model"
)

// These checks are pure so they can run (and be tested) without network
// access. The automator applies them between each API read.

// amountEligible reports whether amount is worth transferring. The minimum is
// an inclusive lower bound, so an amount exactly at the minimum is eligible.
func amountEligible(amount, minimum *model.Amount) bool {
	if amount == nil || amount.Int() <= 0 {
		return false
	}
	if minimum == nil {
		return true
	}
	return amount.Int() >= minimum.Int()
}

// accountsVerified reports whether both account lookups returned details.
func accountsVerified(checking, savings *capitalone.Account) bool {
	return checking != nil && savings != nil
}

// sufficientFunds reports whether checking's available balance covers amount.
// A balance that can't be read counts as insufficient.
func sufficientFunds(checking *capitalone.Account, amount *model.Amount) bool {
	if checking == nil || amount == nil {
		return false
	}
	available, err := checking.AvailableAmount()
	if err != nil {
		return false
	}
	return available.Int() >= amount.Int()
}
