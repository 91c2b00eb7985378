// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
)

// ErrDifferentCurrencies is returned when math is attempted between Amount
// values with different currency symbols.
var ErrDifferentCurrencies = errors.New("different currencies")

// Amount is a quantity of money in one currency.
//
// Money is never held as a binary float. Quantities are integer counts of
// the currency's minor units (cents for USD) next to an ISO 4217 symbol,
// so "USD 12.53" is held as 1253.
type Amount struct {
	cents  int
	symbol string // ISO 4217, i.e. USD, GBP
}

// NewAmount validates symbol as ISO 4217 and reads number as a fixed-point
// quantity, e.g. NewAmount("USD", "100.00").
func NewAmount(symbol string, number string) (*Amount, error) {
	var amt Amount
	if err := amt.FromString(symbol + " " + number); err != nil {
		return nil, err
	}
	return &amt, nil
}

// NewAmountFromInt builds an Amount from a count of minor units, so
// NewAmountFromInt("USD", 1253) is $12.53.
func NewAmountFromInt(symbol string, cents int) (*Amount, error) {
	return NewAmount(symbol, fixedPoint(cents))
}

// ParseAmount reads a "USD 12.53" style string.
func ParseAmount(in string) (*Amount, error) {
	var amt Amount
	if err := amt.FromString(in); err != nil {
		return nil, err
	}
	return &amt, nil
}

// Int returns the quantity in minor units. "USD 1.11" returns 111.
func (a *Amount) Int() int {
	if a == nil {
		return 0
	}
	return a.cents
}

func (a *Amount) Validate() error {
	if a == nil {
		return errors.New("nil Amount")
	}
	_, err := currency.ParseISO(a.symbol)
	return err
}

func (a Amount) Equal(other Amount) bool {
	return a.symbol == other.symbol && a.cents == other.cents
}

// Plus adds two Amounts of the same currency.
func (a Amount) Plus(other Amount) (Amount, error) {
	if a.symbol != other.symbol {
		return a, ErrDifferentCurrencies
	}
	return Amount{cents: a.cents + other.cents, symbol: a.symbol}, nil
}

// String formats the Amount with its currency symbol, like "USD 12.53".
// Unset amounts format as "USD 0.00".
func (a *Amount) String() string {
	if a == nil || a.symbol == "" {
		return "USD 0.00"
	}
	return a.symbol + " " + fixedPoint(a.cents)
}

// Number returns only the fixed-point quantity (e.g. "100.00") without the
// currency symbol. This is the form sent to the banking API, which accepts
// decimal strings and would reject a float's rounding drift.
func (a *Amount) Number() string {
	if a == nil {
		return "0.00"
	}
	return fixedPoint(a.cents)
}

func fixedPoint(cents int) string {
	if cents <= 0 {
		return "0.00"
	}
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// FromString reads a currency symbol and fixed-point quantity, like
// "USD 12.53" or "GBP 4.02". Quantities keep two decimal places, a third
// decimal rounds at half a cent, and anything past it is dropped.
func (a *Amount) FromString(str string) error {
	parts := strings.Fields(str)
	if len(parts) != 2 {
		return fmt.Errorf("invalid Amount format: %q", str)
	}

	sym, err := currency.ParseISO(parts[0])
	if err != nil {
		return err
	}
	cents, err := readFixedPoint(parts[1])
	if err != nil {
		return err
	}

	a.symbol = sym.String()
	a.cents = cents
	return nil
}

// readFixedPoint converts a quantity like "12.53" into minor units (1253).
func readFixedPoint(in string) (int, error) {
	whole, frac := in, ""
	if idx := strings.Index(in, "."); idx >= 0 {
		whole, frac = in[:idx], in[idx+1:]
	}

	cents, err := strconv.Atoi(whole)
	if err != nil {
		return 0, err
	}
	cents *= 100

	switch {
	case frac == "":
		// whole units, like "12"
	case len(frac) == 1:
		dec, err := strconv.Atoi(frac)
		if err != nil {
			return 0, err
		}
		cents += dec * 10 // "12.5" reads as 50 cents
	default:
		dec, err := strconv.Atoi(frac[:2])
		if err != nil {
			return 0, err
		}
		cents += dec
		if len(frac) > 2 && frac[2] >= '5' && frac[2] <= '9' {
			cents++ // round the half cent up
		}
	}

	if cents < 0 {
		return 0, fmt.Errorf("unable to read %s", in)
	}
	return cents, nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return a.FromString(s)
}
