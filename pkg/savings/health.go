// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package savings

import (
	"fmt"
)

const (
	healthy   = "healthy"
	unhealthy = "unhealthy"
)

// HealthStatus reports whether the bank can be reached with the configured
// credentials.
type HealthStatus struct {
	CapitalOneConnection string `json:"capital_one_connection"`
}

// CheckHealth probes the banking API by authenticating and performing a
// read-only account fetch. It never initiates a transfer.
func (a *Automator) CheckHealth() *HealthStatus {
	if err := a.client.Ping(); err != nil {
		a.logger.Log("savings", fmt.Sprintf("health check failed: %v", err))
		return &HealthStatus{CapitalOneConnection: unhealthy}
	}
	return &HealthStatus{CapitalOneConnection: healthy}
}
