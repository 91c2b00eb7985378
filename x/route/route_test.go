// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package route

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/moov-io/base"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
)

func TestRoute__JSON(t *testing.T) {
	logger := log.NewNopLogger()

	router := mux.NewRouter()
	router.Methods("GET").Path("/runs").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responder := NewResponder(logger, w, r)
		if responder == nil {
			return
		}
		responder.Log("runs", "listing")
		responder.JSON(http.StatusOK, map[string]string{"status": "success"})
	})

	req := httptest.NewRequest("GET", "/runs", nil)
	req.Header.Set("X-Request-ID", base.ID())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	w.Flush()

	if w.Code != http.StatusOK {
		t.Errorf("got %d", w.Code)
	}
	if v := w.Header().Get("Content-Type"); v != "application/json; charset=utf-8" {
		t.Errorf("got %q", v)
	}
	if body := w.Body.String(); !strings.Contains(body, `"status":"success"`) {
		t.Errorf("got %q", body)
	}
}

func TestRoute__Problem(t *testing.T) {
	logger := log.NewNopLogger()

	router := mux.NewRouter()
	router.Methods("GET").Path("/bad").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responder := NewResponder(logger, w, r)
		if responder == nil {
			return
		}
		responder.Problem(errors.New("bad error"))
	})

	req := httptest.NewRequest("GET", "/bad", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	w.Flush()

	if w.Code != http.StatusBadRequest {
		t.Errorf("got %d", w.Code)
	}
}

func TestRoute__Idempotency(t *testing.T) {
	logger := log.NewNopLogger()

	router := mux.NewRouter()
	router.Methods("POST").Path("/runs").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responder := NewResponder(logger, w, r)
		if responder == nil {
			return
		}
		responder.JSON(http.StatusOK, nil)
	})

	key := base.ID()
	req := httptest.NewRequest("POST", "/runs", nil)
	req.Header.Set("x-idempotency-key", key)

	if seen := IdempotentRecorder.SeenBefore(key); seen {
		t.Errorf("shouldn't have been seen before")
	}

	// recording the key above means this request reads as a replay
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	w.Flush()

	if w.Code != http.StatusPreconditionFailed {
		t.Errorf("got %d", w.Code)
	}

	if seen := IdempotentRecorder.SeenBefore(key); !seen {
		t.Errorf("should have seen %q", key)
	}
}

func TestRoute__CleanPath(t *testing.T) {
	if v := CleanPath("/v1/sweep/ping"); v != "v1-sweep-ping" {
		t.Errorf("got %q", v)
	}
	if v := CleanPath("/v1/sweep/runs/19636f90bc95779e2488b0f7a45c4b68958a2ddd"); v != "v1-sweep-runs" {
		t.Errorf("got %q", v)
	}
	// A value which looks like moov/base.ID, but is off by one character (last letter)
	if v := CleanPath("/v1/sweep/runs/19636f90bc95779e2488b0f7a45c4b68958a2ddz"); v != "v1-sweep-runs-19636f90bc95779e2488b0f7a45c4b68958a2ddz" {
		t.Errorf("got %q", v)
	}
}

func TestRoute__ReadPathID(t *testing.T) {
	router := mux.NewRouter()
	router.Methods("GET").Path("/runs/{runID}").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v := ReadPathID("runID", r); v != "foo" {
			t.Errorf("got %q", v)
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/runs/foo", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	w.Flush()

	if w.Code != http.StatusOK {
		t.Errorf("got %d", w.Code)
	}
}
