// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package savings

import (
	"context"
)

type MockPublisher struct {
	Published []*Outcome
	Err       error
}

func (p *MockPublisher) Publish(outcome *Outcome) error {
	if p.Err != nil {
		return p.Err
	}
	p.Published = append(p.Published, outcome)
	return nil
}

func (p *MockPublisher) Shutdown(ctx context.Context) {}
