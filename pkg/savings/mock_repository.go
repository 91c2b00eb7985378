// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package savings

import (
	"github.com/sweep-io/sweep/pkg/id"
)

type MockRepository struct {
	Outcomes []*Outcome
	Err      error
}

func (r *MockRepository) GetRun(runID id.Run) (*Outcome, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	for i := range r.Outcomes {
		if r.Outcomes[i].RunID == runID {
			return r.Outcomes[i], nil
		}
	}
	return nil, nil
}

func (r *MockRepository) RecentRuns(params RunFilterParams) ([]*Outcome, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Outcomes, nil
}

func (r *MockRepository) RecordRun(outcome *Outcome) error {
	if r.Err != nil {
		return r.Err
	}
	r.Outcomes = append(r.Outcomes, outcome)
	return nil
}
