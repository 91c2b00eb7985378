// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package sweep automates a weekly personal-finance workflow: it reads the
// latest budget analysis, derives an eligible surplus, and moves that money
// from a checking account into savings over Capital One's API. Each transfer
// is initiated exactly once and settlement is verified before reporting.
package sweep

// Version is the semantic version of this app
var Version = "v0.9.2"
