// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package savings

import (
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

var (
	runOutcomes = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Name: "savings_run_outcomes",
		Help: "Counter of completed savings runs by outcome status",
	}, []string{"status"})

	transferAmounts = prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
		Name: "savings_transfer_amounts",
		Help: "Histogram of initiated transfer amounts in dollars",
	}, []string{})
)
