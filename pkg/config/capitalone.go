// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sweep-io/sweep/pkg/util"
)

// CapitalOne configures the client used to read accounts and move money.
// Account identifiers here are opaque values from the bank and are masked
// anywhere they're logged.
type CapitalOne struct {
	// BaseAddress is the API root, e.g. https://api.capitalone.com
	BaseAddress string

	// Timeout bounds each HTTP call. Zero picks a default.
	Timeout time.Duration

	Accounts CapitalOneAccounts
	Auth     CapitalOneAuth
}

func (cfg CapitalOne) Validate() error {
	if cfg.BaseAddress == "" {
		return errors.New("missing baseAddress")
	}
	if err := cfg.Accounts.Validate(); err != nil {
		return fmt.Errorf("accounts: %v", err)
	}
	if err := cfg.Auth.Validate(); err != nil {
		return fmt.Errorf("auth: %v", err)
	}
	return nil
}

// CapitalOneAccounts names the two accounts money moves between. Checking
// is the source and savings the destination of every transfer.
type CapitalOneAccounts struct {
	Checking string
	Savings  string
}

func (cfg CapitalOneAccounts) Validate() error {
	if cfg.Checking == "" || cfg.Savings == "" {
		return errors.New("missing checking or savings account id")
	}
	return nil
}

// CapitalOneAuth holds OAuth2 client settings. ClientSecret and RefreshToken
// are commonly left out of config files and provided from the environment
// (CAPITAL_ONE_CLIENT_SECRET, CAPITAL_ONE_REFRESH_TOKEN).
type CapitalOneAuth struct {
	TokenAddress string
	ClientID     string
	ClientSecret string
	RefreshToken string
	Scopes       []string
}

func (cfg CapitalOneAuth) Validate() error {
	if cfg.TokenAddress == "" {
		return errors.New("missing tokenAddress")
	}
	if cfg.ClientID == "" {
		return errors.New("missing clientID")
	}
	if cfg.GetClientSecret() == "" && cfg.GetRefreshToken() == "" {
		return errors.New("missing clientSecret and refreshToken")
	}
	return nil
}

func (cfg CapitalOneAuth) GetClientSecret() string {
	return util.Or(os.Getenv("CAPITAL_ONE_CLIENT_SECRET"), cfg.ClientSecret)
}

func (cfg CapitalOneAuth) GetRefreshToken() string {
	return util.Or(os.Getenv("CAPITAL_ONE_REFRESH_TOKEN"), cfg.RefreshToken)
}
