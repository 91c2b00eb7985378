// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package config

type Budget struct {
	// Endpoint is a URL to the budget analysis service. When empty an
	// address is looked up from the local environment.
	Endpoint string
}

func (cfg Budget) Validate() error {
	return nil
}
