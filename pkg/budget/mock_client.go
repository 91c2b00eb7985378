// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package budget

type MockClient struct {
	Analysis *Analysis
	Err      error
	PingErr  error
}

func (c *MockClient) Ping() error {
	return c.PingErr
}

func (c *MockClient) LatestAnalysis() (*Analysis, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Analysis, nil
}
