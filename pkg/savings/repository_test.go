// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package savings

import (
	"testing"
	"time"

	"github.com/moov-io/base"
	"github.com/sweep-io/sweep/pkg/database"
	"github.com/sweep-io/sweep/pkg/id"
)

func TestRunRepository(t *testing.T) {
	success := &Outcome{
		RunID:   id.Run(base.ID()),
		Status:  StatusSuccess,
		Message: "Transfer initiated successfully",
		TransferResult: &TransferResult{
			Amount:             "100.00",
			TransferID:         "transfer-id",
			Verified:           true,
			TransferSuccessful: true,
		},
		Created: time.Now().Truncate(time.Second).UTC(),
	}
	failed := &Outcome{
		RunID:   id.Run(base.ID()),
		Status:  StatusError,
		Message: "Account status verification failed",
		Error:   "backend unavailable",
		Created: time.Now().Truncate(time.Second).UTC(),
	}

	check := func(t *testing.T, repo Repository) {
		if outcome, err := repo.GetRun(id.Run("missing")); outcome != nil || err != nil {
			t.Errorf("outcome=%v err=%v", outcome, err)
		}
		if err := repo.RecordRun(nil); err == nil {
			t.Error("expected error")
		}

		if err := repo.RecordRun(success); err != nil {
			t.Fatal(err)
		}
		if err := repo.RecordRun(failed); err != nil {
			t.Fatal(err)
		}

		// read the successful run back
		found, err := repo.GetRun(success.RunID)
		if err != nil {
			t.Fatal(err)
		}
		if found == nil {
			t.Fatal("expected run")
		}
		if found.Status != StatusSuccess || found.Message != success.Message {
			t.Errorf("status=%v message=%q", found.Status, found.Message)
		}
		tr := found.TransferResult
		if tr == nil {
			t.Fatal("expected transfer result")
		}
		if tr.Amount != "100.00" || tr.TransferID != "transfer-id" || !tr.Verified || !tr.TransferSuccessful {
			t.Errorf("transfer result: %#v", tr)
		}
		if !found.Created.Equal(success.Created) {
			t.Errorf("created=%v", found.Created)
		}

		// and the failed one
		found, err = repo.GetRun(failed.RunID)
		if err != nil {
			t.Fatal(err)
		}
		if found == nil {
			t.Fatal("expected run")
		}
		if found.TransferResult != nil {
			t.Error("unexpected transfer result")
		}
		if found.Error != "backend unavailable" {
			t.Errorf("error=%q", found.Error)
		}

		params := RunFilterParams{
			StartDate: success.Created.Add(-1 * time.Hour),
			EndDate:   success.Created.Add(1 * time.Hour),
			Limit:     10,
		}
		runs, err := repo.RecentRuns(params)
		if err != nil {
			t.Fatal(err)
		}
		if len(runs) != 2 {
			t.Errorf("got %d runs", len(runs))
		}

		params.Status = StatusError
		runs, err = repo.RecentRuns(params)
		if err != nil {
			t.Fatal(err)
		}
		if len(runs) != 1 || runs[0].RunID != failed.RunID {
			t.Errorf("got %#v", runs)
		}

		params.Status = ""
		params.Limit = 1
		runs, err = repo.RecentRuns(params)
		if err != nil {
			t.Fatal(err)
		}
		if len(runs) != 1 {
			t.Errorf("got %d runs", len(runs))
		}

		// a window in the future matches nothing
		params.Limit = 10
		params.StartDate = success.Created.Add(time.Hour)
		params.EndDate = success.Created.Add(2 * time.Hour)
		runs, err = repo.RecentRuns(params)
		if err != nil {
			t.Fatal(err)
		}
		if len(runs) != 0 {
			t.Errorf("got %d runs", len(runs))
		}
	}

	// SQLite tests
	sqliteDB := database.CreateTestSqliteDB(t)
	defer sqliteDB.Close()
	check(t, NewRepo(sqliteDB.DB))

	// MySQL tests
	mysqlDB := database.CreateTestMySQLDB(t)
	defer mysqlDB.Close()
	check(t, NewRepo(mysqlDB.DB))
}

func TestRunRepository__unreadableAmount(t *testing.T) {
	sqliteDB := database.CreateTestSqliteDB(t)
	defer sqliteDB.Close()
	repo := NewRepo(sqliteDB.DB)

	outcome := &Outcome{
		RunID:   id.Run(base.ID()),
		Status:  StatusSuccess,
		Message: "Transfer initiated successfully",
		TransferResult: &TransferResult{
			Amount:     "not-money",
			TransferID: "transfer-id",
		},
		Created: time.Now(),
	}
	if err := repo.RecordRun(outcome); err == nil {
		t.Error("expected error")
	}
}
