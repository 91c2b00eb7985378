// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package database sets up the SQLite or MySQL connection used for the
// savings run history and stored credentials.
package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sweep-io/sweep/pkg/config"

	"github.com/go-kit/kit/log"
	kitprom "github.com/go-kit/kit/metrics/prometheus"
	"github.com/lopezator/migrator"
)

// New establishes a database connection and runs migrations. MySQL wins
// when both engines are configured since config files overlay the sqlite
// default.
func New(ctx context.Context, logger log.Logger, cfg config.Database) (*sql.DB, error) {
	switch {
	case cfg.MySQL != nil:
		logger.Log("database", "setting up mysql database provider")
		return mysqlConnection(logger, cfg.MySQL).Connect(ctx)
	case cfg.SQLite != nil:
		logger.Log("database", "setting up sqlite database provider")
		return sqliteConnection(logger, sqlitePath(cfg.SQLite.Path)).Connect(ctx)
	}
	return nil, errors.New("no database provider configured")
}

func execsql(name, raw string) *migrator.MigrationNoTx {
	return &migrator.MigrationNoTx{
		Name: name,
		Func: func(db *sql.DB) error {
			_, err := db.Exec(raw)
			return err
		},
	}
}

func runMigrations(db *sql.DB, migrations migrator.Option) error {
	m, err := migrator.New(migrations)
	if err != nil {
		return err
	}
	return m.Migrate(db)
}

// recordConnectionStats publishes sql.DB pool counts every second until
// ctx is canceled.
func recordConnectionStats(ctx context.Context, db *sql.DB, connections *kitprom.Gauge) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := db.Stats()
			connections.With("state", "idle").Set(float64(stats.Idle))
			connections.With("state", "inuse").Set(float64(stats.InUse))
			connections.With("state", "open").Set(float64(stats.OpenConnections))
		}
	}
}

// UniqueViolation returns true when the provided error matches a database error
// for duplicate entries (violating a unique table constraint).
func UniqueViolation(err error) bool {
	return MySQLUniqueViolation(err) || SqliteUniqueViolation(err)
}
