// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package savings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/moov-io/base"
	"github.com/sweep-io/sweep/pkg/budget"
	"github.com/sweep-io/sweep/pkg/capitalone"
	"github.com/sweep-io/sweep/pkg/id"
	"github.com/sweep-io/sweep/pkg/util"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
)

func setupRouter(t *testing.T, env *controllerTestEnv) *mux.Router {
	t.Helper()

	r := mux.NewRouter()
	NewRouter(log.NewNopLogger(), env.controller, env.controller.automator, env.repo).RegisterRoutes(r)
	return r
}

func TestRouter__checkHealth(t *testing.T) {
	client := &capitalone.MockClient{Accounts: healthyAccounts()}
	env := setupController(t, client, &budget.MockClient{}, &MockVerifier{Verified: true})
	r := setupRouter(t, env)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	w.Flush()

	if w.Code != http.StatusOK {
		t.Errorf("status=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"capital_one_connection":"healthy"`) {
		t.Errorf("body=%s", w.Body.String())
	}

	client.PingErr = errors.New("bank down")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	w.Flush()

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"capital_one_connection":"unhealthy"`) {
		t.Errorf("body=%s", w.Body.String())
	}
}

func TestRouter__startRun(t *testing.T) {
	client := &capitalone.MockClient{Accounts: healthyAccounts()}
	env := setupController(t, client, &budget.MockClient{Err: errors.New("budget service down")}, &MockVerifier{Verified: true})
	r := setupRouter(t, env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env.controller.Start(ctx)

	body := strings.NewReader(`{"status": "completed", "total_variance": "100.00"}`)
	req := httptest.NewRequest("POST", "/runs", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	w.Flush()

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var outcome Outcome
	if err := json.NewDecoder(w.Body).Decode(&outcome); err != nil {
		t.Fatal(err)
	}
	if outcome.Status != StatusSuccess {
		t.Errorf("status=%v message=%q", outcome.Status, outcome.Message)
	}
	if outcome.TransferResult == nil || outcome.TransferResult.Amount != "100.00" {
		t.Errorf("transfer result: %#v", outcome.TransferResult)
	}
}

func TestRouter__startRunWithoutBody(t *testing.T) {
	client := &capitalone.MockClient{Accounts: healthyAccounts()}
	env := setupController(t, client, &budget.MockClient{Analysis: completedAnalysis("50.00")}, &MockVerifier{Verified: true})
	r := setupRouter(t, env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env.controller.Start(ctx)

	req := httptest.NewRequest("POST", "/runs", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	w.Flush()

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var outcome Outcome
	if err := json.NewDecoder(w.Body).Decode(&outcome); err != nil {
		t.Fatal(err)
	}
	if outcome.TransferResult == nil || outcome.TransferResult.Amount != "50.00" {
		t.Errorf("transfer result: %#v", outcome.TransferResult)
	}
}

func TestRouter__startRunBadBody(t *testing.T) {
	client := &capitalone.MockClient{Accounts: healthyAccounts()}
	env := setupController(t, client, &budget.MockClient{}, &MockVerifier{Verified: true})
	r := setupRouter(t, env)

	req := httptest.NewRequest("POST", "/runs", strings.NewReader(`{"total_variance": "not-a-number"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	w.Flush()

	if w.Code != http.StatusBadRequest {
		t.Errorf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestRouter__getRecentRuns(t *testing.T) {
	client := &capitalone.MockClient{Accounts: healthyAccounts()}
	env := setupController(t, client, &budget.MockClient{}, &MockVerifier{Verified: true})
	env.repo.Outcomes = []*Outcome{
		{RunID: id.Run(base.ID()), Status: StatusSuccess, Message: "Transfer initiated successfully", Created: time.Now()},
		{RunID: id.Run(base.ID()), Status: StatusNoTransfer, Message: "No surplus eligible for transfer", Created: time.Now()},
	}
	r := setupRouter(t, env)

	req := httptest.NewRequest("GET", "/runs?limit=10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	w.Flush()

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var outcomes []*Outcome
	if err := json.NewDecoder(w.Body).Decode(&outcomes); err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != 2 {
		t.Errorf("got %d outcomes", len(outcomes))
	}

	// repository problems surface
	env.repo.Err = errors.New("database down")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	w.Flush()

	if w.Code != http.StatusBadRequest {
		t.Errorf("status=%d", w.Code)
	}
}

func TestRouter__readRunFilterParams(t *testing.T) {
	req := httptest.NewRequest("GET", "/runs?status=error&startDate=2020-07-01&endDate=2020-07-31&limit=5&offset=10", nil)
	params := readRunFilterParams(req)

	if params.Status != StatusError {
		t.Errorf("status=%v", params.Status)
	}
	if v := params.StartDate.Format(util.YYMMDDTimeFormat); v != "2020-07-01" {
		t.Errorf("startDate=%s", v)
	}
	if v := params.EndDate.Format(util.YYMMDDTimeFormat); v != "2020-07-31" {
		t.Errorf("endDate=%s", v)
	}
	if params.Limit != 5 || params.Offset != 10 {
		t.Errorf("limit=%d offset=%d", params.Limit, params.Offset)
	}

	// defaults
	params = readRunFilterParams(nil)
	if params.Limit != 20 || params.Offset != 0 || params.Status != Status("") {
		t.Errorf("params=%#v", params)
	}

	// unknown statuses are dropped rather than matching nothing
	req = httptest.NewRequest("GET", "/runs?status=weird", nil)
	if params := readRunFilterParams(req); params.Status != Status("") {
		t.Errorf("status=%v", params.Status)
	}
}

func TestRouter__getRun(t *testing.T) {
	client := &capitalone.MockClient{Accounts: healthyAccounts()}
	env := setupController(t, client, &budget.MockClient{}, &MockVerifier{Verified: true})

	runID := id.Run(base.ID())
	env.repo.Outcomes = []*Outcome{
		{
			RunID:   runID,
			Status:  StatusSuccess,
			Message: "Transfer initiated successfully",
			TransferResult: &TransferResult{
				Amount:     "100.00",
				TransferID: "transfer-id",
				Verified:   true,
			},
			Created: time.Now(),
		},
	}
	r := setupRouter(t, env)

	req := httptest.NewRequest("GET", "/runs/"+runID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	w.Flush()

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var outcome Outcome
	if err := json.NewDecoder(w.Body).Decode(&outcome); err != nil {
		t.Fatal(err)
	}
	if outcome.RunID != runID {
		t.Errorf("runID=%v", outcome.RunID)
	}

	// unknown runs are a 404
	req = httptest.NewRequest("GET", "/runs/"+base.ID(), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	w.Flush()

	if w.Code != http.StatusNotFound {
		t.Errorf("status=%d", w.Code)
	}
}
