// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package database

import (
	"errors"
	"testing"
)

func TestMySQL__basic(t *testing.T) {
	db := CreateTestMySQLDB(t)
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
}

func TestMySQLUniqueViolation(t *testing.T) {
	err := errors.New(`problem writing run="282f6ffcd9ba5b029afbf2b739ee826e22d9df3b": Error 1062: Duplicate entry '282f6ffcd9ba5b029afbf2b739ee826e22d9df3b' for key 'PRIMARY'`)
	if !MySQLUniqueViolation(err) {
		t.Error("should have matched unique violation")
	}
}
