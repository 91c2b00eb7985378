// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package route

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	moovhttp "github.com/moov-io/base/http"
	"github.com/moov-io/base/idempotent"
	"github.com/moov-io/base/idempotent/lru"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

var (
	IdempotentRecorder = lru.New()

	Histogram = prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
		Name: "http_response_duration_seconds",
		Help: "Histogram representing the http response durations",
	}, []string{"route"})
)

// Responder wraps a request/response pair with structured logging, response
// timing, request IDs, and replay detection of X-Idempotency-Key values.
type Responder struct {
	XRequestID string

	logger  log.Logger
	request *http.Request
	writer  *moovhttp.ResponseWriter
}

// NewResponder returns nil when the request carries an X-Idempotency-Key
// that was answered before. The 412 response is already written in that
// case, so handlers only need to return.
func NewResponder(logger log.Logger, w http.ResponseWriter, r *http.Request) *Responder {
	name := fmt.Sprintf("%s-%s", strings.ToLower(r.Method), CleanPath(r.URL.Path))
	writer := moovhttp.Wrap(logger, Histogram.With("route", name), w, r)

	if _, seen := idempotent.FromRequest(r, IdempotentRecorder); seen {
		idempotent.SeenBefore(writer)
		return nil
	}

	return &Responder{
		XRequestID: moovhttp.GetRequestID(r),
		logger:     logger,
		request:    r,
		writer:     writer,
	}
}

func (r *Responder) Log(kvpairs ...interface{}) {
	if r == nil || r.writer == nil {
		return
	}
	args := append([]interface{}{"requestID", r.XRequestID}, kvpairs...)
	r.logger.Log(args...)
}

func (r *Responder) Respond(fn func(http.ResponseWriter)) {
	if r == nil {
		return
	}
	r.writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	fn(r.writer)
}

// JSON writes status and then v encoded as a JSON body.
func (r *Responder) JSON(status int, v interface{}) {
	r.Respond(func(w http.ResponseWriter) {
		w.WriteHeader(status)
		if v != nil {
			json.NewEncoder(w).Encode(v)
		}
	})
}

func (r *Responder) Problem(err error) {
	if r == nil {
		return
	}
	r.writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	moovhttp.Problem(r.writer, err)
}

var baseIdRegex = regexp.MustCompile(`([a-f0-9]{40})`)

// CleanPath converts a URL path into a Prometheus label value. Slashes
// become dashes and moov/base.ID() slugs are dropped so each route maps
// to one label.
func CleanPath(path string) string {
	parts := strings.Split(path, "/")
	var out []string
	for i := range parts {
		if parts[i] == "" || baseIdRegex.MatchString(parts[i]) {
			continue
		}
		out = append(out, parts[i])
	}
	return strings.Join(out, "-")
}
