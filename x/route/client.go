// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package route

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"
)

// TLSHttpClient returns an http.Client for calls to outside services. The
// client trusts the system certificate pool plus an optional PEM file of
// extra roots (a corporate proxy, a self-signed sandbox cert).
func TLSHttpClient(path string) (*http.Client, error) {
	pool, err := rootCAs(path)
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig:     &tls.Config{RootCAs: pool},
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			MaxConnsPerHost:     100,
			IdleConnTimeout:     1 * time.Minute,
		},
	}, nil
}

func rootCAs(path string) (*x509.CertPool, error) {
	pool, err := x509.SystemCertPool()
	if pool == nil || err != nil {
		pool = x509.NewCertPool()
	}
	if path == "" {
		return pool, nil
	}

	bs, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("problem reading %s: %v", path, err)
	}
	if !pool.AppendCertsFromPEM(bs) {
		return nil, fmt.Errorf("no certificates parsed from %s", path)
	}
	return pool, nil
}
