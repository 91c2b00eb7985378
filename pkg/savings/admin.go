// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package savings

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/moov-io/base/admin"
	moovhttp "github.com/moov-io/base/http"
	"github.com/sweep-io/sweep/pkg/util"

	"github.com/go-kit/kit/log"
)

func RegisterAdminRoutes(logger log.Logger, svc *admin.Server, controller *Controller) {
	svc.AddHandler("/savings/run", manualRun(logger, controller))
}

// manualRun triggers a savings run outside the weekly schedule. Adding
// ?wait makes the request block until the run finishes and respond with
// its Outcome.
func manualRun(logger log.Logger, controller *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" {
			moovhttp.Problem(w, fmt.Errorf("unsupported HTTP verb %s", r.Method))
			return
		}

		requestID := moovhttp.GetRequestID(r)
		logger.Log("savings", "admin: starting manual savings run", "requestID", requestID)

		if _, exists := r.URL.Query()["wait"]; exists {
			var outcome *Outcome
			err := util.Timeout(func() error {
				outcome = <-controller.Trigger(nil, requestID)
				return nil
			}, runWait)
			if err == util.ErrTimeout {
				moovhttp.Problem(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(outcome)
			return
		}

		go controller.Trigger(nil, requestID)
		w.WriteHeader(http.StatusOK)
	}
}
