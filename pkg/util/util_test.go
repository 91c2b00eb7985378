// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package util

import (
	"errors"
	"testing"
	"time"
)

func TestUtil__Or(t *testing.T) {
	if v := Or("", "backup"); v != "backup" {
		t.Errorf("got %q", v)
	}
	if v := Or("primary", "backup"); v != "primary" {
		t.Errorf("got %q", v)
	}
	if v := Or("  ", ""); v != "" {
		t.Errorf("got %q", v)
	}
}

func TestUtil__Yes(t *testing.T) {
	if !Yes("yes") {
		t.Error("expected true")
	}
	if !Yes("TRUE") {
		t.Error("expected true")
	}
	if Yes("no") || Yes("") {
		t.Error("expected false")
	}
}

func TestUtil__FirstParsedTime(t *testing.T) {
	when := FirstParsedTime("2020-07-10", YYMMDDTimeFormat)
	if when.IsZero() {
		t.Fatal("expected parsed time")
	}
	if when.Year() != 2020 || when.Month() != time.July || when.Day() != 10 {
		t.Errorf("got %v", when)
	}

	if when := FirstParsedTime("not-a-date", YYMMDDTimeFormat); !when.IsZero() {
		t.Errorf("got %v", when)
	}
}

func TestUtil__Timeout(t *testing.T) {
	if err := Timeout(func() error { return nil }, 1*time.Second); err != nil {
		t.Errorf("got %v", err)
	}

	want := errors.New("bad result")
	if err := Timeout(func() error { return want }, 1*time.Second); err != want {
		t.Errorf("got %v", err)
	}

	err := Timeout(func() error {
		time.Sleep(1 * time.Second)
		return nil
	}, 50*time.Millisecond)
	if err != ErrTimeout {
		t.Errorf("got %v", err)
	}
}
