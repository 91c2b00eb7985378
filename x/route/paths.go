// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.
package route

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

const maxLimit = 100

func ReadPathID(name string, r *http.Request) string {
	vars := mux.Vars(r)
	v, ok := vars[name]
	if ok {
		return v
	}
	return ""
}

// ReadLimit returns the "limit" query param from a request or zero if it's
// missing. Values are clamped to maxLimit.
func ReadLimit(r *http.Request) int {
	return readIntQueryParam(r, "limit", maxLimit)
}

// ReadOffset returns the "offset" query param from a request or zero if it's missing.
func ReadOffset(r *http.Request) int {
	return readIntQueryParam(r, "offset", math.MaxInt32)
}

func readIntQueryParam(r *http.Request, key string, max int) int {
	if v := r.URL.Query().Get(key); v != "" {
		n, _ := strconv.Atoi(v)
		if n > max {
			return max
		}
		if n < 0 {
			return 0
		}
		return n
	}
	return 0
}
