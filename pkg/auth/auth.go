// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package auth manages OAuth2 bearer credentials for the external services
// Sweep talks to. Tokens are granted with a refresh_token exchange when one
// is configured and a client_credentials exchange otherwise, then stored
// encrypted so restarts can reuse unexpired tokens.
//
// Token refresh is serialized. Two in-flight requests must never refresh
// the same credential concurrently.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/kit/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenService is the authentication collaborator consumed by API clients.
// Implementations hand out bearer tokens keyed by a service name.
type TokenService interface {
	// Authenticate ensures a usable bearer token exists for serviceName,
	// granting or refreshing one as needed.
	Authenticate(serviceName string) error

	// GetToken returns a bearer token for serviceName to sign requests with.
	GetToken(serviceName string) (string, error)

	// RefreshToken forces a fresh token grant and reports whether it succeeded.
	RefreshToken(serviceName string) bool
}

// Endpoint describes the OAuth2 token endpoint of one external service.
type Endpoint struct {
	ServiceName  string
	TokenURL     string
	ClientID     string
	ClientSecret string
	RefreshToken string
	Scopes       []string
}

// expiryLeeway pads token expiry checks so a token isn't handed out
// moments before the backend rejects it.
const expiryLeeway = 30 * time.Second

func NewTokenService(logger log.Logger, repo Repository, endpoints ...Endpoint) TokenService {
	svc := &tokenService{
		logger:    logger,
		repo:      repo,
		endpoints: make(map[string]Endpoint),
	}
	for i := range endpoints {
		svc.endpoints[endpoints[i].ServiceName] = endpoints[i]
	}
	return svc
}

type tokenService struct {
	logger    log.Logger
	repo      Repository
	endpoints map[string]Endpoint

	mu sync.Mutex // serializes token grants and refreshes
}

func (svc *tokenService) Authenticate(serviceName string) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	_, err := svc.usableCredentials(serviceName)
	return err
}

func (svc *tokenService) GetToken(serviceName string) (string, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	creds, err := svc.usableCredentials(serviceName)
	if err != nil {
		return "", err
	}
	return creds.AccessToken, nil
}

func (svc *tokenService) RefreshToken(serviceName string) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if _, err := svc.grant(serviceName); err != nil {
		svc.logger.Log("auth", fmt.Sprintf("problem refreshing %s token: %v", serviceName, err))
		return false
	}
	return true
}

// usableCredentials returns stored credentials when they haven't expired
// and requests a fresh grant otherwise. Callers must hold svc.mu.
func (svc *tokenService) usableCredentials(serviceName string) (*Credentials, error) {
	creds, err := svc.repo.GetCredentials(serviceName)
	if err != nil {
		return nil, fmt.Errorf("problem reading %s credentials: %v", serviceName, err)
	}
	if creds != nil && creds.AccessToken != "" && time.Until(creds.ExpiresAt) > expiryLeeway {
		return creds, nil
	}
	return svc.grant(serviceName)
}

// grant exchanges for a new token and stores the result. Callers must hold svc.mu.
func (svc *tokenService) grant(serviceName string) (*Credentials, error) {
	endpoint, exists := svc.endpoints[serviceName]
	if !exists {
		return nil, fmt.Errorf("unknown service %s", serviceName)
	}

	ctx, cancelFn := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelFn()

	refreshToken := endpoint.RefreshToken
	if stored, err := svc.repo.GetCredentials(serviceName); err == nil && stored != nil && stored.RefreshToken != "" {
		refreshToken = stored.RefreshToken // the backend may have rotated it
	}

	tok, err := endpoint.exchange(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("problem granting %s token: %v", serviceName, err)
	}

	creds := &Credentials{
		ServiceName:  serviceName,
		AccessToken:  tok.AccessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    tok.Expiry,
	}
	if tok.RefreshToken != "" {
		creds.RefreshToken = tok.RefreshToken
	}
	if err := svc.repo.UpsertCredentials(creds); err != nil {
		return nil, fmt.Errorf("problem storing %s credentials: %v", serviceName, err)
	}

	svc.logger.Log("auth", fmt.Sprintf("granted %s token", serviceName), "expiresAt", creds.ExpiresAt.Format(time.RFC3339))

	return creds, nil
}

// exchange performs the OAuth2 grant against the service's token endpoint.
func (e Endpoint) exchange(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken != "" {
		conf := &oauth2.Config{
			ClientID:     e.ClientID,
			ClientSecret: e.ClientSecret,
			Scopes:       e.Scopes,
			Endpoint: oauth2.Endpoint{
				TokenURL: e.TokenURL,
			},
		}
		return conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	}
	if e.ClientSecret != "" {
		conf := &clientcredentials.Config{
			ClientID:     e.ClientID,
			ClientSecret: e.ClientSecret,
			TokenURL:     e.TokenURL,
			Scopes:       e.Scopes,
		}
		return conf.Token(ctx)
	}
	return nil, errors.New("no refresh token or client secret configured")
}
