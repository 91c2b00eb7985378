// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package util

import (
	"strconv"
	"strings"
)

// Or returns the first option which isn't blank after trimming whitespace.
func Or(options ...string) string {
	for i := range options {
		if v := strings.TrimSpace(options[i]); v != "" {
			return v
		}
	}
	return ""
}

// Yes reports whether in reads as an affirmative config or environment
// value, either "yes" (any casing) or a strconv boolean.
func Yes(in string) bool {
	in = strings.TrimSpace(in)
	if strings.EqualFold(in, "yes") {
		return true
	}
	v, _ := strconv.ParseBool(in)
	return v
}
