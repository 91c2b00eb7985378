// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package model

import (
	"fmt"
)

// SumAmounts adds each "USD 12.53" style string into a running total.
// Used when totaling a week of account transactions. The currency follows
// the first amount and mixing currencies is an error.
func SumAmounts(amounts ...string) (*Amount, error) {
	total := Amount{symbol: "USD"}
	for i := range amounts {
		var amt Amount
		if err := amt.FromString(amounts[i]); err != nil {
			return nil, fmt.Errorf("problem reading '%s': %v", amounts[i], err)
		}
		if i == 0 {
			total.symbol = amt.symbol
		}
		sum, err := total.Plus(amt)
		if err != nil {
			return nil, fmt.Errorf("problem adding '%s': %v", amounts[i], err)
		}
		total = sum
	}
	return &total, nil
}
