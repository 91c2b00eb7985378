// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package notify

import (
	"bytes"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sweep-io/sweep/pkg/config"

	"github.com/gorilla/mux"
)

func TestSlack(t *testing.T) {
	handler := mux.NewRouter()
	handler.Methods("POST").Path("/webhook").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bs, _ := ioutil.ReadAll(r.Body)
		if !bytes.Contains(bs, []byte(`"text"`)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte("ok"))
	})
	svc := httptest.NewServer(handler)
	defer svc.Close()

	cfg := &config.Slack{
		WebhookURL: svc.URL + "/webhook",
	}
	slack, err := NewSlack(cfg)
	if err != nil {
		t.Fatal(err)
	}

	msg := &Message{
		Status:  "success",
		Message: "Transfer initiated successfully",
	}

	if err := slack.Info(msg); err != nil {
		t.Fatal(err)
	}

	if err := slack.Critical(msg); err != nil {
		t.Fatal(err)
	}
}

func TestSlack__marshal(t *testing.T) {
	tests := []struct {
		desc          string
		severity      runSeverity
		msg           *Message
		shouldContain string
	}{
		{"info run", info, &Message{Status: "success", Message: "Transfer initiated successfully"},
			"savings run success: Transfer initiated successfully"},
		{"critical run", critical, &Message{Status: "error", Message: "Insufficient funds for transfer"},
			"ALERT savings run error: Insufficient funds for transfer"},
		{"transfer details", info, &Message{Status: "success", Message: "Transfer initiated successfully", Amount: "USD 100.00", TransferID: "td-123", Verified: true},
			"amount: USD 100.00 transfer: td-123 verified: true"},
		{"weekly activity", info, &Message{Status: "no_transfer", Message: "No surplus eligible for transfer", TransactionCount: 3, TotalCredits: "450.00", TotalDebits: "100.10"},
			"checking activity: 3 transactions, 450.00 in credits, 100.10 in debits"},
	}

	for _, test := range tests {
		actual := marshalSlackMessage(test.severity, test.msg)
		require.Contains(t, actual, test.shouldContain)
	}
}

func TestSlack__errors(t *testing.T) {
	if _, err := NewSlack(nil); err == nil {
		t.Error("expected error")
	}
	if _, err := NewSlack(&config.Slack{}); err == nil {
		t.Error("expected error")
	}

	svc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer svc.Close()

	slack, err := NewSlack(&config.Slack{WebhookURL: svc.URL})
	if err != nil {
		t.Fatal(err)
	}
	if err := slack.Info(&Message{Status: "success"}); err == nil {
		t.Error("expected error")
	}
}
