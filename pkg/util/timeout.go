// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package util

import (
	"errors"
	"time"
)

var (
	ErrTimeout = errors.New("timeout exceeded")
)

// Timeout calls f and waits up to t for it to finish. ErrTimeout is
// returned once t elapses, but f keeps running. The buffered channel lets
// an abandoned f return without leaking its goroutine.
func Timeout(f func() error, t time.Duration) error {
	answer := make(chan error, 1)
	go func() {
		answer <- f()
	}()
	select {
	case err := <-answer:
		return err
	case <-time.After(t):
		return ErrTimeout
	}
}
