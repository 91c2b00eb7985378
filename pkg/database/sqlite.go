// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sweep-io/sweep/pkg/util"

	"github.com/go-kit/kit/log"
	kitprom "github.com/go-kit/kit/metrics/prometheus"
	"github.com/lopezator/migrator"
	"github.com/mattn/go-sqlite3"
	stdprom "github.com/prometheus/client_golang/prometheus"
)

var (
	sqliteConnections = kitprom.NewGaugeFrom(stdprom.GaugeOpts{
		Name: "sqlite_connections",
		Help: "Connection pool states for the sqlite database.",
	}, []string{"state"})

	sqliteVersionLogOnce sync.Once

	sqliteMigrations = migrator.Migrations(
		execsql(
			"create_savings_runs",
			`create table if not exists savings_runs(run_id primary key, status, message, amount_currency, amount_value integer, transfer_id, verified integer, transfer_successful integer, error_message, created_at datetime);`,
		),
		execsql(
			"create_credentials",
			`create table if not exists credentials(service_name primary key not null, access_token, refresh_token, expires_at datetime, updated_at datetime);`,
		),
	)
)

type sqlite struct {
	dsn string

	connections *kitprom.Gauge
	logger      log.Logger
}

func sqliteConnection(logger log.Logger, path string) *sqlite {
	if path == "" {
		return nil
	}
	return &sqlite{
		// _busy_timeout has writers wait on locks instead of failing with SQLITE_BUSY
		dsn:         fmt.Sprintf("file:%s?_busy_timeout=5000", path),
		logger:      logger,
		connections: sqliteConnections,
	}
}

func (s *sqlite) Connect(ctx context.Context) (*sql.DB, error) {
	if s == nil {
		return nil, fmt.Errorf("nil %T", s)
	}

	sqliteVersionLogOnce.Do(func() {
		if v, _, _ := sqlite3.Version(); v != "" {
			s.logger.Log("main", fmt.Sprintf("sqlite version %s", v))
		}
	})

	db, err := sql.Open("sqlite3", s.dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return db, err
	}
	if err := runMigrations(db, sqliteMigrations); err != nil {
		return db, err
	}

	go recordConnectionStats(ctx, db, s.connections)

	return db, nil
}

func sqlitePath(configured string) string {
	path := util.Or(os.Getenv("SQLITE_DB_PATH"), configured)
	if path == "" || strings.Contains(path, "..") {
		// directory escapes fall back to the default next to the binary
		path = "sweep.db"
	}
	return path
}

// TestSQLiteDB holds a migrated sqlite database in a temporary directory.
// Callers cleanup with Close() when their testcase finishes.
type TestSQLiteDB struct {
	DB *sql.DB

	dir      string
	shutdown func()
}

func (r *TestSQLiteDB) Close() error {
	r.shutdown()

	// a leaked connection here means some repository forgot rows.Close()
	if conns := r.DB.Stats().OpenConnections; conns != 0 {
		panic(fmt.Sprintf("sqlite: %d connections still open", conns))
	}
	if err := r.DB.Close(); err != nil {
		return err
	}
	return os.RemoveAll(r.dir)
}

// CreateTestSqliteDB returns a TestSQLiteDB with all migrations applied.
func CreateTestSqliteDB(t *testing.T) *TestSQLiteDB {
	dir, err := ioutil.TempDir("", "sweep-sqlite")
	if err != nil {
		t.Fatalf("sqlite test: %v", err)
	}

	ctx, cancelFunc := context.WithCancel(context.Background())

	db, err := sqliteConnection(log.NewNopLogger(), filepath.Join(dir, "sweep.db")).Connect(ctx)
	if err != nil {
		t.Fatalf("sqlite test: %v", err)
	}

	// idle connections would hide a leak from the check in Close
	db.SetMaxIdleConns(0)

	return &TestSQLiteDB{DB: db, dir: dir, shutdown: cancelFunc}
}

// SqliteUniqueViolation returns true when the provided error matches the SQLite error
// for duplicate entries (violating a unique table constraint).
func SqliteUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	match := strings.Contains(err.Error(), "UNIQUE constraint failed")
	if e, ok := err.(sqlite3.Error); ok {
		return match || e.Code == sqlite3.ErrConstraint
	}
	return match
}
