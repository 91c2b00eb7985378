// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package notify

import (
	"testing"

	"github.com/sweep-io/sweep/pkg/config"
)

func TestPagerDuty(t *testing.T) {
	if _, err := NewPagerDuty(nil); err == nil {
		t.Error("expected error")
	}

	// a bogus api key can't list abilities
	if _, err := NewPagerDuty(&config.PagerDuty{ApiKey: "bogus", RoutingKey: "bogus"}); err == nil {
		t.Error("expected error")
	}

	var pd *PagerDuty
	if err := pd.Ping(); err == nil {
		t.Error("expected error")
	}
}
