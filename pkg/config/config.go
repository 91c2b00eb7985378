// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/moov-io/base"
	"github.com/spf13/viper"
)

type Config struct {
	Logger  log.Logger `yaml:"-" json:"-"`
	Logging Logging

	Http  HTTP
	Admin Admin

	Database Database
	Tracing  Tracing

	CapitalOne    CapitalOne
	Budget        Budget
	Savings       Savings
	Notifications Notifications
}

type Logging struct {
	Format string
	Level  string
}

type HTTP struct {
	BindAddress string
}

type Admin struct {
	BindAddress           string
	DisableConfigEndpoint bool
}

func Empty() *Config {
	return &Config{
		Logger: log.NewNopLogger(),
		Admin: Admin{
			BindAddress: ":9092",
		},
		Http: HTTP{
			BindAddress: ":8082",
		},
		Database: Database{
			// Set the default path inside this path if no other database is defined.
			SQLite: &SQLite{
				Path: "sweep.db",
			},
		},
		Savings: Savings{
			MinimumTransfer: "USD 25.00",
			Verification: Verification{
				Attempts: 10,
				Interval: defaultVerificationInterval,
			},
		},
	}
}

// FromFile reads path as yaml overlaid on the defaults from Empty. An
// empty path returns just the defaults.
func FromFile(path string) (*Config, error) {
	if path != "" {
		bs, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %v", path, err)
		}
		return Read(bs)
	}
	return finish(Empty())
}

func Read(data []byte) (*Config, error) {
	vip := viper.New()
	vip.SetConfigType("yaml")
	if err := vip.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("problem reading config: %v", err)
	}

	cfg := Empty()
	if err := vip.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("problem unmarshaling config: %v", err)
	}
	return finish(cfg)
}

// finish attaches a logger and validates before handing the Config out.
func finish(cfg *Config) (*Config, error) {
	cfg.Logger = newLogger(cfg.Logging)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg Logging) log.Logger {
	var logger log.Logger
	if strings.EqualFold(cfg.Format, "json") {
		logger = log.NewJSONLogger(os.Stderr)
	} else {
		logger = log.NewLogfmtLogger(os.Stderr)
	}
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

// Validate checks every section and accumulates each problem found rather
// than stopping at the first.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.New("missing Config")
	}

	var el base.ErrorList
	if err := cfg.Tracing.Validate(); err != nil {
		el.Add(fmt.Errorf("tracing: %v", err))
	}
	if err := cfg.CapitalOne.Validate(); err != nil {
		el.Add(fmt.Errorf("capitalOne: %v", err))
	}
	if err := cfg.Budget.Validate(); err != nil {
		el.Add(fmt.Errorf("budget: %v", err))
	}
	if err := cfg.Savings.Validate(); err != nil {
		el.Add(fmt.Errorf("savings: %v", err))
	}
	if err := cfg.Notifications.Validate(); err != nil {
		el.Add(fmt.Errorf("notifications: %v", err))
	}
	if el.Empty() {
		return nil
	}
	return el
}
