// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sweep-io/sweep/pkg/model"
)

var defaultVerificationInterval = 3 * time.Second

// Savings controls the weekly transfer workflow: how much is worth moving,
// when runs happen, and how settlement is confirmed.
type Savings struct {
	// MinimumTransfer is the smallest surplus worth moving, e.g. "USD 25.00".
	// Amounts exactly at this value are eligible.
	MinimumTransfer string

	Schedule     *Schedule
	Verification Verification

	Stream *Stream
}

func (cfg Savings) Validate() error {
	if _, err := model.ParseAmount(cfg.MinimumTransfer); err != nil {
		return fmt.Errorf("minimum transfer: %v", err)
	}
	if err := cfg.Schedule.Validate(); err != nil {
		return fmt.Errorf("schedule: %v", err)
	}
	if err := cfg.Verification.Validate(); err != nil {
		return fmt.Errorf("verification: %v", err)
	}
	if err := cfg.Stream.Validate(); err != nil {
		return fmt.Errorf("stream: %v", err)
	}
	return nil
}

// MinimumAmount returns the parsed MinimumTransfer value.
func (cfg Savings) MinimumAmount() *model.Amount {
	amt, _ := model.ParseAmount(cfg.MinimumTransfer)
	return amt
}

// Schedule describes when the weekly run fires. A nil Schedule disables
// periodic runs, leaving only manual triggers.
type Schedule struct {
	// Timezone is an IANA name ("America/New_York") the weekday and time
	// are interpreted in.
	Timezone string

	// Weekday is the day runs happen, e.g. "Friday".
	Weekday string

	// Time is a 24-hour "15:04" timestamp.
	Time string
}

func (cfg *Schedule) Validate() error {
	if cfg == nil {
		return nil
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("timezone: %v", err)
	}
	if _, err := ParseWeekday(cfg.Weekday); err != nil {
		return err
	}
	if _, err := time.Parse("15:04", cfg.Time); err != nil {
		return fmt.Errorf("time: %v", err)
	}
	return nil
}

// ParseWeekday reads a day name ("Friday") into its time.Weekday.
func ParseWeekday(v string) (time.Weekday, error) {
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.EqualFold(day.String(), v) {
			return day, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", v)
}

// Verification bounds the settlement poll after a transfer is initiated.
type Verification struct {
	// Attempts is how many status reads happen before giving up. Giving up
	// is reported as unverified, not as a failed run.
	Attempts int

	// Interval is the pause between status reads.
	Interval time.Duration
}

func (cfg Verification) Validate() error {
	if cfg.Attempts <= 0 {
		return errors.New("attempts must be positive")
	}
	if cfg.Interval <= 0 {
		return errors.New("interval must be positive")
	}
	return nil
}
