// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package route

import (
	"fmt"
	"strings"

	"github.com/sweep-io/sweep/x/trace"

	opentracing "github.com/opentracing/opentracing-go"
)

// Span opens a server-side span for the wrapped request, continuing a trace
// carried in its headers. Callers must Finish the span.
func (r *Responder) Span() opentracing.Span {
	method := strings.ToLower(r.request.Method)
	path := CleanPath(r.request.URL.Path)

	name := fmt.Sprintf("%s-%s", method, path)

	return trace.FromRequest(name, r.request)
}
