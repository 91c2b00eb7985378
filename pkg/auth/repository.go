// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package auth

import (
	"database/sql"
	"errors"
	"time"

	"github.com/sweep-io/sweep/pkg/database"
	"github.com/sweep-io/sweep/pkg/secrets"
)

// Credentials is one service's OAuth2 state. Tokens are encrypted at rest
// and only decrypted inside this package.
type Credentials struct {
	ServiceName  string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

type Repository interface {
	GetCredentials(serviceName string) (*Credentials, error)
	UpsertCredentials(creds *Credentials) error
}

func NewRepo(db *sql.DB, keeper *secrets.StringKeeper) Repository {
	return &sqlRepo{db: db, keeper: keeper}
}

type sqlRepo struct {
	db     *sql.DB
	keeper *secrets.StringKeeper
}

func (r *sqlRepo) GetCredentials(serviceName string) (*Credentials, error) {
	query := `select access_token, refresh_token, expires_at from credentials where service_name = ? limit 1;`
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	creds := &Credentials{ServiceName: serviceName}
	var encryptedAccess, encryptedRefresh string
	var expiresAt *time.Time
	if err := stmt.QueryRow(serviceName).Scan(&encryptedAccess, &encryptedRefresh, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if expiresAt != nil {
		creds.ExpiresAt = *expiresAt
	}

	if creds.AccessToken, err = r.keeper.DecryptString(encryptedAccess); err != nil {
		return nil, err
	}
	if creds.RefreshToken, err = r.keeper.DecryptString(encryptedRefresh); err != nil {
		return nil, err
	}
	return creds, nil
}

func (r *sqlRepo) UpsertCredentials(creds *Credentials) error {
	if creds == nil {
		return errors.New("nil Credentials")
	}

	encryptedAccess, err := r.keeper.EncryptString(creds.AccessToken)
	if err != nil {
		return err
	}
	encryptedRefresh, err := r.keeper.EncryptString(creds.RefreshToken)
	if err != nil {
		return err
	}

	// updated_at changes on every write, so an existing row always reports
	// an affected row and we can fall through to insert otherwise.
	query := `update credentials set access_token = ?, refresh_token = ?, expires_at = ?, updated_at = ? where service_name = ?;`
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	res, err := stmt.Exec(encryptedAccess, encryptedRefresh, creds.ExpiresAt, time.Now(), creds.ServiceName)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	query = `insert into credentials (service_name, access_token, refresh_token, expires_at, updated_at) values (?, ?, ?, ?, ?);`
	stmt, err = r.db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(creds.ServiceName, encryptedAccess, encryptedRefresh, creds.ExpiresAt, time.Now())
	if err != nil && database.UniqueViolation(err) {
		// another writer inserted the row between our update and insert
		return r.UpsertCredentials(creds)
	}
	return err
}
