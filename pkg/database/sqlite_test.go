// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package database

import (
	"context"
	"runtime"
	"testing"

	"github.com/go-kit/kit/log"
)

func TestSQLite__basic(t *testing.T) {
	db := CreateTestSqliteDB(t)
	defer db.Close()

	if err := db.DB.Ping(); err != nil {
		t.Fatal(err)
	}

	// migrations should have ran
	if _, err := db.DB.Exec(`select count(*) from savings_runs`); err != nil {
		t.Errorf("savings_runs: %v", err)
	}
	if _, err := db.DB.Exec(`select count(*) from credentials`); err != nil {
		t.Errorf("credentials: %v", err)
	}

	if runtime.GOOS == "windows" {
		t.Skip("/dev/null doesn't exist on Windows")
	}

	// error case
	s := sqliteConnection(log.NewNopLogger(), "/tmp/path/doesnt/exist")

	conn, _ := s.Connect(context.Background())
	if err := conn.Ping(); err == nil {
		t.Error("expected error")
	}
	conn.Close()
}

func TestSQLite__sqlitePath(t *testing.T) {
	if v := sqlitePath(""); v != "sweep.db" {
		t.Errorf("got %s", v)
	}
	if v := sqlitePath("/opt/sweep/sweep.db"); v != "/opt/sweep/sweep.db" {
		t.Errorf("got %s", v)
	}
	// directory escapes fall back to the default
	if v := sqlitePath("../../etc/passwd"); v != "sweep.db" {
		t.Errorf("got %s", v)
	}
}

func TestSQLite__nil(t *testing.T) {
	var s *sqlite
	if _, err := s.Connect(context.Background()); err == nil {
		t.Error("expected error")
	}

	if s := sqliteConnection(log.NewNopLogger(), ""); s != nil {
		t.Errorf("expected nil, got %#v", s)
	}
}
