// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package notify

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/moov-io/base/docker"

	"github.com/ory/dockertest/v3"
)

// spawnMailslurp starts a mailslurper container and returns its SMTP port.
// The container is torn down when the test finishes.
func spawnMailslurp(t *testing.T) string {
	t.Helper()

	if testing.Short() || !docker.Enabled() {
		t.Skip("skipping docker test")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatal(err)
	}

	container, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository:   "oryd/mailslurper",
		Tag:          "latest-smtps",
		ExposedPorts: []string{"1025"},
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := container.Close(); err != nil {
			t.Error(err)
		}
	})

	port := container.GetPort("1025/tcp")

	// mailslurper needs a moment before it accepts connections
	err = pool.Retry(func() error {
		time.Sleep(1 * time.Second)

		conn, err := net.Dial("tcp", fmt.Sprintf("localhost:%s", port))
		if err != nil {
			return err
		}
		return conn.Close()
	})
	if err != nil {
		t.Fatal(err)
	}

	return port
}
