// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package auth

type MockTokenService struct {
	Token      string
	Refreshed  bool
	Err        error
	RefreshErr error
}

func (svc *MockTokenService) Authenticate(serviceName string) error {
	return svc.Err
}

func (svc *MockTokenService) GetToken(serviceName string) (string, error) {
	if svc.Err != nil {
		return "", svc.Err
	}
	return svc.Token, nil
}

func (svc *MockTokenService) RefreshToken(serviceName string) bool {
	svc.Refreshed = true
	return svc.RefreshErr == nil
}
