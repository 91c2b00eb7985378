// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/moov-io/base/docker"
	"github.com/sweep-io/sweep/pkg/config"

	"github.com/go-kit/kit/log"
	kitprom "github.com/go-kit/kit/metrics/prometheus"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/lopezator/migrator"
	"github.com/ory/dockertest/v3"
	stdprom "github.com/prometheus/client_golang/prometheus"
)

var (
	// mySQLErrDuplicateKey is the error code for duplicate entries
	// https://dev.mysql.com/doc/refman/8.0/en/server-error-reference.html#error_er_dup_entry
	mySQLErrDuplicateKey uint16 = 1062

	mysqlConnections = kitprom.NewGaugeFrom(stdprom.GaugeOpts{
		Name: "mysql_connections",
		Help: "Connection pool states for the MySQL database.",
	}, []string{"state"})

	mysqlMigrations = migrator.Migrations(
		execsql(
			"create_savings_runs",
			`create table if not exists savings_runs(run_id varchar(40) primary key, status varchar(16), message varchar(256), amount_currency varchar(3), amount_value integer, transfer_id varchar(64), verified boolean, transfer_successful boolean, error_message varchar(512), created_at datetime);`,
		),
		execsql(
			"create_credentials",
			`create table if not exists credentials(service_name varchar(40) primary key, access_token text, refresh_token text, expires_at datetime, updated_at datetime);`,
		),
	)
)

type discardLogger struct{}

func (l discardLogger) Print(v ...interface{}) {}

func init() {
	gomysql.SetLogger(discardLogger{})
}

type mysql struct {
	dsn string

	connections *kitprom.Gauge
	logger      log.Logger
}

func mysqlConnection(logger log.Logger, cfg *config.MySQL) *mysql {
	params := "timeout=30s&tls=false&charset=utf8mb4&parseTime=true&sql_mode=ALLOW_INVALID_DATES"
	return &mysql{
		dsn:         fmt.Sprintf("%s:%s@%s/%s?%s", cfg.Username, cfg.GetPassword(), cfg.Address, cfg.Database, params),
		logger:      logger,
		connections: mysqlConnections,
	}
}

func (my *mysql) Connect(ctx context.Context) (*sql.DB, error) {
	if my == nil {
		return nil, fmt.Errorf("nil %T", my)
	}

	db, err := sql.Open("mysql", my.dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return db, err
	}
	if err := runMigrations(db, mysqlMigrations); err != nil {
		return db, err
	}

	go recordConnectionStats(ctx, db, my.connections)

	return db, nil
}

// TestMySQLDB holds a migrated mysql database running inside a Docker
// container. Callers cleanup with Close() when their testcase finishes.
type TestMySQLDB struct {
	DB *sql.DB

	container *dockertest.Resource

	shutdown func()
}

func (r *TestMySQLDB) Close() error {
	r.shutdown()
	r.container.Close()
	return r.DB.Close()
}

// CreateTestMySQLDB returns a TestMySQLDB with all migrations applied.
// Tests are skipped when Docker isn't available.
func CreateTestMySQLDB(t *testing.T) *TestMySQLDB {
	if testing.Short() {
		t.Skip("-short flag enabled")
	}
	if !docker.Enabled() {
		t.Skip("Docker not enabled")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatal(err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8",
		Env: []string{
			"MYSQL_USER=sweep",
			"MYSQL_PASSWORD=secret",
			"MYSQL_ROOT_PASSWORD=secret",
			"MYSQL_DATABASE=sweep",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = pool.Retry(func() error {
		db, err := sql.Open("mysql", fmt.Sprintf("sweep:secret@tcp(localhost:%s)/sweep", resource.GetPort("3306/tcp")))
		if err != nil {
			return err
		}
		defer db.Close()
		return db.Ping()
	})
	if err != nil {
		resource.Close()
		t.Fatal(err)
	}

	ctx, cancelFunc := context.WithCancel(context.Background())

	cfg := &config.MySQL{
		Address:  fmt.Sprintf("tcp(localhost:%s)", resource.GetPort("3306/tcp")),
		Username: "sweep",
		Password: "secret",
		Database: "sweep",
	}
	db, err := mysqlConnection(log.NewNopLogger(), cfg).Connect(ctx)
	if err != nil {
		cancelFunc()
		t.Fatal(err)
	}
	return &TestMySQLDB{DB: db, container: resource, shutdown: cancelFunc}
}

// MySQLUniqueViolation returns true when the provided error matches the MySQL code
// for duplicate entries (violating a unique table constraint).
func MySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	match := strings.Contains(err.Error(), fmt.Sprintf("Error %d: Duplicate entry", mySQLErrDuplicateKey))
	if e, ok := err.(*gomysql.MySQLError); ok {
		return match || e.Number == mySQLErrDuplicateKey
	}
	return match
}
