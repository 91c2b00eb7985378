// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package admin

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/moov-io/base/admin"
	"github.com/sweep-io/sweep/pkg/config"
	"github.com/sweep-io/sweep/pkg/util"
	"github.com/sweep-io/sweep/x/mask"
)

// RegisterRoutes will add HTTP handlers for the admin HTTP server
func RegisterRoutes(svc *admin.Server, cfg *config.Config) {
	if cfg.Admin.DisableConfigEndpoint || util.Yes(os.Getenv("DISABLE_CONFIG_ENDPOINT")) {
		return
	}

	svc.AddHandler("/config", marshalConfig(cfg))
}

func marshalConfig(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(maskSecrets(cfg))
	}
}

// maskSecrets copies cfg with credential material hidden. Sections holding
// secrets are copied before they're touched, the original Config is never
// modified.
func maskSecrets(cfg *config.Config) *config.Config {
	out := *cfg
	out.CapitalOne.Auth.ClientSecret = mask.Password(cfg.CapitalOne.Auth.ClientSecret)
	out.CapitalOne.Auth.RefreshToken = mask.Password(cfg.CapitalOne.Auth.RefreshToken)

	if cfg.Notifications.Email != nil {
		email := *cfg.Notifications.Email
		email.ConnectionURI = mask.Password(email.ConnectionURI)
		out.Notifications.Email = &email
	}
	if cfg.Notifications.PagerDuty != nil {
		pd := *cfg.Notifications.PagerDuty
		pd.ApiKey = mask.Password(pd.ApiKey)
		out.Notifications.PagerDuty = &pd
	}
	if cfg.Notifications.Slack != nil {
		slack := *cfg.Notifications.Slack
		slack.WebhookURL = mask.Password(slack.WebhookURL)
		out.Notifications.Slack = &slack
	}
	return &out
}
