// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package secrets

import (
	"testing"
	"time"
)

// TestStringKeeper returns a StringKeeper backed by the development key for
// use in tests across packages.
func TestStringKeeper(t *testing.T) *StringKeeper {
	t.Helper()

	keeper, err := OpenLocal(devKey)
	if err != nil {
		t.Fatal(err)
	}
	return NewStringKeeper(keeper, 1*time.Second)
}
