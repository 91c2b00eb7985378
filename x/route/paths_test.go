// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package route

import (
	"net/http/httptest"
	"testing"
)

func TestReadLimit(t *testing.T) {
	req := httptest.NewRequest("GET", "/runs?limit=10", nil)
	if limit := ReadLimit(req); limit != 10 {
		t.Errorf("limit=%d", limit)
	}

	// clamped
	req = httptest.NewRequest("GET", "/runs?limit=5000", nil)
	if limit := ReadLimit(req); limit != maxLimit {
		t.Errorf("limit=%d", limit)
	}

	// missing and garbage
	req = httptest.NewRequest("GET", "/runs", nil)
	if limit := ReadLimit(req); limit != 0 {
		t.Errorf("limit=%d", limit)
	}
	req = httptest.NewRequest("GET", "/runs?limit=abc", nil)
	if limit := ReadLimit(req); limit != 0 {
		t.Errorf("limit=%d", limit)
	}
}

func TestReadOffset(t *testing.T) {
	req := httptest.NewRequest("GET", "/runs?offset=25", nil)
	if offset := ReadOffset(req); offset != 25 {
		t.Errorf("offset=%d", offset)
	}

	req = httptest.NewRequest("GET", "/runs?offset=-5", nil)
	if offset := ReadOffset(req); offset != 0 {
		t.Errorf("offset=%d", offset)
	}
}
