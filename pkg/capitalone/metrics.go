// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package capitalone

import (
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

var (
	clientErrors = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Name: "capital_one_client_errors",
		Help: "Counter of failed Capital One API operations",
	}, []string{"operation"})
)
