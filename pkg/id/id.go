// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package id

import "strings"

// Account is an opaque identifier for a bank account. Values are assigned
// by the banking backend and must be masked before display (see x/mask).
type Account string

func (a Account) String() string {
	return string(a)
}

// Transfer is the banking backend's identifier for an initiated transfer.
type Transfer string

func (id Transfer) Equal(s string) bool {
	return strings.EqualFold(string(id), s)
}

func (id Transfer) String() string {
	return string(id)
}

// Run identifies one execution of the savings automation workflow.
type Run string

func (r Run) String() string {
	return string(r)
}
