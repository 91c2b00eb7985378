// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package mask hides sensitive values before they reach any log, metric
// label, or notification body.
package mask

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// InvalidAccountID is rendered in place of account identifiers which are
// empty or otherwise unusable. Audit logs need to show something went wrong
// without showing what was sent.
const InvalidAccountID = "[INVALID_ACCOUNT_ID]"

// AccountNumber hides all but the last four characters of an account
// identifier.
//
//	AccountNumber("1234567890123456") // XXXXXXXXXXXX3456
//
// Identifiers of four or fewer characters are returned unchanged (there is
// nothing left to hide) and blank input returns InvalidAccountID.
func AccountNumber(s string) string {
	if strings.TrimSpace(s) == "" {
		return InvalidAccountID
	}
	n := utf8.RuneCountInString(s)
	if n <= 4 {
		return s
	}
	runes := []rune(s)
	return strings.Repeat("X", n-4) + string(runes[n-4:])
}

// Password turns 'password' into 'p******d' for display.
func Password(s string) string {
	if utf8.RuneCountInString(s) < 3 {
		return "**" // too short, we can't mask anything
	} else {
		first, last := s[0:1], s[len(s)-1:]
		return fmt.Sprintf("%s%s%s", first, strings.Repeat("*", len(s)-2), last)
	}
}
