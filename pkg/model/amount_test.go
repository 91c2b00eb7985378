// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package model

import (
	"encoding/json"
	"testing"
)

func TestAmount(t *testing.T) {
	cases := map[string]string{
		"12.00":               "USD 12.00",
		"12":                  "USD 12.00", // whole units
		"0.25":                "USD 0.25",
		"1150.00":             "USD 1150.00",
		"10000000000000000.2": "USD 10000000000000000.20",
	}
	for in, expected := range cases {
		amt, err := NewAmount("USD", in)
		if err != nil {
			t.Errorf("%s: %v", in, err)
			continue
		}
		if v := amt.String(); v != expected {
			t.Errorf("%s: got %q", in, v)
		}
	}

	if _, err := NewAmount("", ".0"); err == nil {
		t.Error("expected error")
	}
}

func TestAmount__NewAmountFromInt(t *testing.T) {
	if amt, _ := NewAmountFromInt("USD", 1266); amt.String() != "USD 12.66" {
		t.Errorf("got %q", amt.String())
	}
	if amt, _ := NewAmountFromInt("USD", 2); amt.String() != "USD 0.02" {
		t.Errorf("got %q", amt.String())
	}
}

func TestAmount__Int(t *testing.T) {
	cases := map[string]int{
		"12.53":  1253,
		"14.562": 1456, // a third decimal rounds at half a cent
		"14.568": 1457,
		"0.03":   3,
		"0.003":  0,
	}
	for in, expected := range cases {
		amt, err := NewAmount("USD", in)
		if err != nil {
			t.Errorf("%s: %v", in, err)
			continue
		}
		if v := amt.Int(); v != expected {
			t.Errorf("%s: got %d", in, v)
		}
	}
}

func TestAmount__Number(t *testing.T) {
	amt, _ := NewAmount("USD", "100.00")
	if v := amt.Number(); v != "100.00" {
		t.Errorf("got %q", v)
	}

	var nothing *Amount
	if v := nothing.Number(); v != "0.00" {
		t.Errorf("got %q", v)
	}
}

func TestAmount__FromString(t *testing.T) {
	amt := Amount{}
	if err := amt.FromString("fail"); err == nil {
		t.Error("expected error")
	}
	if err := amt.FromString("USD 12.00"); err != nil {
		t.Error(err)
	}
	if err := amt.Validate(); err != nil {
		t.Error(err)
	}

	if err := amt.FromString("USD invalid"); err == nil {
		t.Error("expected error")
	}
	// garbage in the fraction is an error, not zero cents
	if err := amt.FromString("USD 12.x3"); err == nil {
		t.Error("expected error")
	}

	if err := amt.FromString("USD 1234"); err != nil {
		t.Errorf("unexpected error: %v", err)
	} else if amt.Int() != 123400 {
		t.Errorf("got %v", amt.String())
	}

	// one decimal digit reads as tens of cents
	if err := amt.FromString("USD 12.5"); err != nil {
		t.Errorf("unexpected error: %v", err)
	} else if amt.Int() != 1250 {
		t.Errorf("got %v", amt.String())
	}

	// sub-cent amounts round at half a cent
	if err := amt.FromString("USD 12.005"); err != nil {
		t.Errorf("unexpected error: %v", err)
	} else if amt.Int() != 1201 {
		t.Errorf("got %v", amt.String())
	}
}

func TestAmount__json(t *testing.T) {
	amt := Amount{}
	if err := json.Unmarshal([]byte(`"USD 12.03"`), &amt); err != nil {
		t.Error(err)
	}
	if amt.symbol != "USD" || amt.cents != 1203 {
		t.Errorf("got %v", amt)
	}

	bs, err := json.Marshal(Amount{cents: 1200, symbol: "USD"})
	if err != nil {
		t.Error(err)
	}
	if v := string(bs); v != `"USD 12.00"` {
		t.Errorf("got %q", v)
	}

	bs, err = json.Marshal(Amount{cents: 0, symbol: "USD"})
	if err != nil {
		t.Error(err)
	}
	if v := string(bs); v != `"USD 0.00"` {
		t.Errorf("got %q", v)
	}

	if err := json.Unmarshal([]byte(`"other thing"`), &amt); err == nil {
		t.Error("expected error")
	}
}

func TestAmount__Equal(t *testing.T) {
	one := Amount{cents: 10, symbol: "USD"}
	two := Amount{cents: 10, symbol: "USD"}
	if !one.Equal(two) {
		t.Error("expected equal")
	}

	two = Amount{cents: 11, symbol: "USD"}
	if one.Equal(two) {
		t.Error("expected not equal")
	}
	if one.Equal(Amount{cents: 10, symbol: "GBP"}) {
		t.Error("expected not equal")
	}
}

func TestAmount__Plus(t *testing.T) {
	one, _ := NewAmount("USD", "1.25")
	two, _ := NewAmount("USD", "2.00")

	sum, err := one.Plus(*two)
	if err != nil {
		t.Fatal(err)
	}
	if v := sum.String(); v != "USD 3.25" {
		t.Errorf("got %q", v)
	}

	gbp, _ := NewAmount("GBP", "4.02")
	if _, err := one.Plus(*gbp); err != ErrDifferentCurrencies {
		t.Errorf("got %v", err)
	}
}
