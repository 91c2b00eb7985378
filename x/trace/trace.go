// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package trace wires Jaeger spans around outbound HTTP calls.
package trace

import (
	"fmt"
	"io"

	"github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/opentracing/opentracing-go"
	jaegermetrics "github.com/uber/jaeger-lib/metrics/prometheus"

	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

var (
	// wrappedPrometheusRegisterer is a singleton so we only register opentracing metrics once
	wrappedPrometheusRegisterer = jaegermetrics.New(jaegermetrics.WithRegisterer(prometheus.DefaultRegisterer))
)

// NewTracer returns an opentracing.Tracer from Jaeger. Sample rates inside
// (0, 1) record that fraction of spans, every other value records all spans.
//
// This method replaces the opentracing singleton and registers metrics on the
// Prometheus DefaultRegisterer singleton.
func NewTracer(logger log.Logger, serviceName string, sampleRate float64) (opentracing.Tracer, io.Closer, error) {
	sampler := &jaegercfg.SamplerConfig{
		Type:  jaeger.SamplerTypeConst,
		Param: 1.0,
	}
	if sampleRate > 0.0 && sampleRate < 1.0 {
		sampler.Type = jaeger.SamplerTypeProbabilistic
		sampler.Param = sampleRate
	}

	cfg := jaegercfg.Configuration{
		ServiceName: serviceName,
		Sampler:     sampler,
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans: true,
		},
	}

	tracer, closer, err := cfg.NewTracer(
		jaegercfg.Logger(&jaegerLogger{inner: logger}),
		jaegercfg.Metrics(wrappedPrometheusRegisterer),
	)
	opentracing.SetGlobalTracer(tracer)
	return tracer, closer, err
}

func GlobalTracer() opentracing.Tracer {
	return opentracing.GlobalTracer()
}

var _ jaeger.Logger = (*jaegerLogger)(nil)

// adapter for jaeger.Logger
type jaegerLogger struct {
	inner log.Logger
}

func (l *jaegerLogger) Error(msg string) {
	l.inner.Log("level", "error", "msg", msg)
}

func (l *jaegerLogger) Infof(msg string, args ...interface{}) {
	l.inner.Log("msg", fmt.Sprintf(msg, args...))
}
