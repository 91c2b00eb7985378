// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package savings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/moov-io/base"
	"github.com/sweep-io/sweep/pkg/budget"
	"github.com/sweep-io/sweep/pkg/id"
	"github.com/sweep-io/sweep/pkg/util"
	"github.com/sweep-io/sweep/x/route"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
)

// runWait bounds how long an HTTP caller blocks on a run before getting a
// timeout problem. The run itself keeps going.
var runWait = 30 * time.Second

type Router struct {
	logger log.Logger

	controller *Controller
	automator  *Automator
	repo       Repository
}

func NewRouter(logger log.Logger, controller *Controller, automator *Automator, repo Repository) *Router {
	return &Router{
		logger:     logger,
		controller: controller,
		automator:  automator,
		repo:       repo,
	}
}

func (router *Router) RegisterRoutes(r *mux.Router) {
	r.Methods("GET").Path("/health").HandlerFunc(router.checkHealth())
	r.Methods("GET").Path("/runs").HandlerFunc(router.getRecentRuns())
	r.Methods("POST").Path("/runs").HandlerFunc(router.startRun())
	r.Methods("GET").Path("/runs/{runID}").HandlerFunc(router.getRun())
}

func (router *Router) checkHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responder := route.NewResponder(router.logger, w, r)
		if responder == nil {
			return
		}
		span := responder.Span()
		defer span.Finish()

		health := router.automator.CheckHealth()

		status := http.StatusOK
		if health.CapitalOneConnection != healthy {
			status = http.StatusServiceUnavailable
		}
		responder.JSON(status, health)
	}
}

// startRun triggers a savings run and responds with its Outcome. An optional
// request body carrying budget analysis fields (status, total_variance)
// overrides the lookup of the latest analysis.
func (router *Router) startRun() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responder := route.NewResponder(router.logger, w, r)
		if responder == nil {
			return
		}
		span := responder.Span()
		defer span.Finish()

		analysis, err := readAnalysisOverride(r)
		if err != nil {
			responder.Problem(err)
			return
		}

		var outcome *Outcome
		err = util.Timeout(func() error {
			outcome = <-router.controller.Trigger(analysis, responder.XRequestID)
			return nil
		}, runWait)
		if err == util.ErrTimeout {
			responder.Log("savings", "timed out waiting for run to finish")
			responder.Problem(err)
			return
		}

		responder.JSON(http.StatusOK, outcome)
	}
}

func readAnalysisOverride(r *http.Request) (*budget.Analysis, error) {
	var analysis budget.Analysis
	if err := json.NewDecoder(r.Body).Decode(&analysis); err != nil {
		if err == io.EOF {
			return nil, nil // no body, read the latest analysis instead
		}
		return nil, err
	}
	return &analysis, nil
}

func (router *Router) getRecentRuns() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responder := route.NewResponder(router.logger, w, r)
		if responder == nil {
			return
		}

		params := readRunFilterParams(r)
		runs, err := router.repo.RecentRuns(params)
		if err != nil {
			responder.Log("savings", fmt.Sprintf("error getting recent runs: %v", err))
			responder.Problem(err)
			return
		}

		responder.JSON(http.StatusOK, runs)
	}
}

func readRunFilterParams(r *http.Request) RunFilterParams {
	params := RunFilterParams{
		StartDate: time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Now().Add(24 * time.Hour),
		Limit:     20,
		Offset:    0,
	}
	if r == nil {
		return params
	}
	q := r.URL.Query()
	if v := q.Get("startDate"); v != "" {
		params.StartDate = util.FirstParsedTime(v, base.ISO8601Format, util.YYMMDDTimeFormat)
	}
	if v := q.Get("endDate"); v != "" {
		params.EndDate = util.FirstParsedTime(v, base.ISO8601Format, util.YYMMDDTimeFormat)
	}
	switch status := Status(q.Get("status")); status {
	case StatusSuccess, StatusError, StatusNoTransfer:
		params.Status = status
	}
	if limit := route.ReadLimit(r); limit != 0 {
		params.Limit = limit
	}
	if offset := route.ReadOffset(r); offset != 0 {
		params.Offset = offset
	}
	return params
}

func (router *Router) getRun() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responder := route.NewResponder(router.logger, w, r)
		if responder == nil {
			return
		}

		runID := id.Run(route.ReadPathID("runID", r))
		if runID == "" {
			responder.Problem(errors.New("missing runID"))
			return
		}

		outcome, err := router.repo.GetRun(runID)
		if err != nil {
			responder.Log("savings", fmt.Sprintf("error reading run %s: %v", runID, err))
			responder.Problem(err)
			return
		}
		if outcome == nil {
			responder.JSON(http.StatusNotFound, nil)
			return
		}

		responder.JSON(http.StatusOK, outcome)
	}
}
