// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package savings

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sweep-io/sweep/pkg/id"
	"github.com/sweep-io/sweep/pkg/model"
)

// Transfers are USD only, so stored amounts don't carry a symbol on the wire
// and get one back here.
const storedCurrency = "USD"

// Repository keeps each run's Outcome so past runs stay auditable long after
// their notifications are gone.
type Repository interface {
	GetRun(runID id.Run) (*Outcome, error)
	RecentRuns(params RunFilterParams) ([]*Outcome, error)
	RecordRun(outcome *Outcome) error
}

// RunFilterParams narrows RecentRuns. Zero values widen the search.
type RunFilterParams struct {
	Status    Status
	StartDate time.Time
	EndDate   time.Time
	Limit     int
	Offset    int
}

func NewRepo(db *sql.DB) Repository {
	return &sqlRepo{db: db}
}

type sqlRepo struct {
	db *sql.DB
}

func (r *sqlRepo) RecordRun(outcome *Outcome) error {
	if outcome == nil {
		return errors.New("nil Outcome")
	}

	query := `insert into savings_runs (run_id, status, message, amount_currency, amount_value, transfer_id, verified, transfer_successful, error_message, created_at) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	var currency string
	var cents int
	var transferID string
	var verified, successful bool
	if tr := outcome.TransferResult; tr != nil {
		amt, err := model.NewAmount(storedCurrency, tr.Amount)
		if err != nil {
			return fmt.Errorf("unreadable amount %q: %v", tr.Amount, err)
		}
		currency = storedCurrency
		cents = amt.Int()
		transferID = tr.TransferID
		verified = tr.Verified
		successful = tr.TransferSuccessful
	}

	_, err = stmt.Exec(outcome.RunID, outcome.Status, outcome.Message, currency, cents, transferID, verified, successful, outcome.Error, outcome.Created)
	return err
}

func (r *sqlRepo) GetRun(runID id.Run) (*Outcome, error) {
	query := `select run_id, status, message, amount_currency, amount_value, transfer_id, verified, transfer_successful, error_message, created_at from savings_runs where run_id = ? limit 1;`
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	outcome, err := scanOutcome(stmt.QueryRow(runID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return outcome, nil
}

func (r *sqlRepo) RecentRuns(params RunFilterParams) ([]*Outcome, error) {
	var statusQuery string
	if string(params.Status) != "" {
		statusQuery = "and status = ?"
	}
	query := fmt.Sprintf(`select run_id, status, message, amount_currency, amount_value, transfer_id, verified, transfer_successful, error_message, created_at from savings_runs
where created_at >= ? and created_at <= ? %s
order by created_at desc limit ? offset ?;`, statusQuery)
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	args := []interface{}{params.StartDate, params.EndDate}
	if statusQuery != "" {
		args = append(args, params.Status)
	}
	args = append(args, params.Limit, params.Offset)

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []*Outcome
	for rows.Next() {
		outcome, err := scanOutcome(rows)
		if err != nil {
			return nil, fmt.Errorf("RecentRuns scan: %v", err)
		}
		outcomes = append(outcomes, outcome)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("RecentRuns: rows.Err=%v", err)
	}
	return outcomes, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOutcome(row rowScanner) (*Outcome, error) {
	outcome := &Outcome{}
	var (
		currency   string
		cents      int
		transferID string
		verified   bool
		successful bool
	)
	err := row.Scan(
		&outcome.RunID,
		&outcome.Status,
		&outcome.Message,
		&currency,
		&cents,
		&transferID,
		&verified,
		&successful,
		&outcome.Error,
		&outcome.Created,
	)
	if err != nil {
		return nil, err
	}
	if transferID != "" {
		amt, err := model.NewAmountFromInt(currency, cents)
		if err != nil {
			return nil, fmt.Errorf("unreadable stored amount %d %s: %v", cents, currency, err)
		}
		outcome.TransferResult = &TransferResult{
			Amount:             amt.Number(),
			TransferID:         transferID,
			Verified:           verified,
			TransferSuccessful: successful,
		}
	}
	return outcome, nil
}
