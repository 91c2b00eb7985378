// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
)

type Tracing struct {
	// SampleRate keeps approximately this fraction of spans when set
	// between zero and one. Zero keeps every span.
	SampleRate float64 `yaml:"sampleRate" json:"sampleRate"`
}

func (cfg Tracing) Validate() error {
	if cfg.SampleRate < 0.0 || cfg.SampleRate > 1.0 {
		return fmt.Errorf("invalid sampleRate %.2f", cfg.SampleRate)
	}
	return nil
}
