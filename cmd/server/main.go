// Copyright 2020 The Sweep Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moov-io/base/admin"

	"github.com/sweep-io/sweep"
	"github.com/sweep-io/sweep/pkg/auth"
	"github.com/sweep-io/sweep/pkg/budget"
	"github.com/sweep-io/sweep/pkg/capitalone"
	"github.com/sweep-io/sweep/pkg/config"
	configadmin "github.com/sweep-io/sweep/pkg/config/admin"
	"github.com/sweep-io/sweep/pkg/database"
	"github.com/sweep-io/sweep/pkg/notify"
	"github.com/sweep-io/sweep/pkg/savings"
	"github.com/sweep-io/sweep/pkg/secrets"
	"github.com/sweep-io/sweep/pkg/util"
	"github.com/sweep-io/sweep/x/route"
	"github.com/sweep-io/sweep/x/trace"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
)

var (
	httpAddr  = flag.String("http.addr", "", "HTTP listen address (overrides http.bindAddress from the config file)")
	adminAddr = flag.String("admin.addr", "", "Admin HTTP listen address (overrides admin.bindAddress from the config file)")

	flagConfigFile = flag.String("config", "", "Filepath for config file to load")
)

func main() {
	flag.Parse()

	cfg := readConfig(util.Or(os.Getenv("CONFIG_FILE"), *flagConfigFile))
	logger := cfg.Logger
	logger.Log("startup", fmt.Sprintf("Starting sweep server version %s", sweep.Version))

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	// migrate database
	db, err := database.New(ctx, logger, cfg.Database)
	if err != nil {
		panic(fmt.Sprintf("error creating database: %v", err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Log("exit", err)
		}
	}()

	// Listen for application termination.
	errs := make(chan error)
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errs <- fmt.Errorf("%s", <-c)
	}()

	// Spin up admin HTTP server
	adminServer := admin.NewServer(util.Or(os.Getenv("HTTP_ADMIN_BIND_ADDRESS"), *adminAddr, cfg.Admin.BindAddress))
	adminServer.AddVersionHandler(sweep.Version) // Setup 'GET /version'
	go func() {
		logger.Log("admin", fmt.Sprintf("listening on %s", adminServer.BindAddr()))
		if err := adminServer.Listen(); err != nil {
			err = fmt.Errorf("problem starting admin http: %v", err)
			logger.Log("admin", err)
			errs <- err
		}
	}()
	defer adminServer.Shutdown()
	configadmin.RegisterRoutes(adminServer, cfg)

	// Traces cover each outbound Capital One call
	if _, closer, err := trace.NewTracer(logger, "sweep", cfg.Tracing.SampleRate); err != nil {
		logger.Log("startup", fmt.Errorf("problem creating tracer: %v", err))
	} else {
		defer closer.Close()
	}

	keeper, err := secrets.OpenSecretKeeper(ctx, "sweep-credentials", os.Getenv("CLOUD_PROVIDER"))
	if err != nil {
		panic(err)
	}
	stringKeeper := secrets.NewStringKeeper(keeper, 10*time.Second)

	// Stored bearer tokens are encrypted with the secret keeper
	authRepo := auth.NewRepo(db, stringKeeper)
	tokens := auth.NewTokenService(logger, authRepo, capitalOneEndpoint(cfg))

	httpClient, err := route.TLSHttpClient(os.Getenv("HTTP_CLIENT_CAFILE"))
	if err != nil {
		panic(fmt.Sprintf("problem creating TLS ready *http.Client: %v", err))
	}

	// Create our various Client instances
	capitalOneClient := setupCapitalOneClient(logger, cfg, tokens, adminServer, httpClient)
	budgetClient := setupBudgetClient(logger, cfg, adminServer, httpClient)

	// Wire up the savings workflow
	runRepo := savings.NewRepo(db)
	verifier := savings.NewVerifier(logger, capitalOneClient, cfg.Savings.Verification)
	automator := savings.NewAutomator(logger, cfg.Savings, cfg.CapitalOne.Accounts, capitalOneClient, verifier)

	publisher, err := savings.NewPublisher(cfg.Savings.Stream)
	if err != nil {
		panic(fmt.Sprintf("problem creating outcome publisher: %v", err))
	}

	notifier, err := notify.NewMultiSender(logger, cfg.Notifications)
	if err != nil {
		panic(fmt.Sprintf("problem creating notifier: %v", err))
	}

	controller, err := savings.NewController(logger, cfg.Savings, cfg.CapitalOne.Accounts, automator, budgetClient, capitalOneClient, runRepo, publisher, notifier)
	if err != nil {
		panic(fmt.Sprintf("problem creating savings controller: %v", err))
	}
	controller.Start(ctx)
	savings.RegisterAdminRoutes(logger, adminServer, controller)

	// Create HTTP handler
	handler := mux.NewRouter()
	route.PingRoute(handler)

	savingsRouter := savings.NewRouter(logger, controller, automator, runRepo)
	savingsRouter.RegisterRoutes(handler)

	// Create main HTTP server
	serve := &http.Server{
		Addr:    util.Or(os.Getenv("HTTP_BIND_ADDRESS"), *httpAddr, cfg.Http.BindAddress),
		Handler: handler,
		TLSConfig: &tls.Config{
			InsecureSkipVerify:       false,
			PreferServerCipherSuites: true,
			MinVersion:               tls.VersionTLS12,
		},
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	shutdownServer := func() {
		if err := serve.Shutdown(context.TODO()); err != nil {
			logger.Log("shutdown", err)
		}
	}
	defer shutdownServer()

	// Start main HTTP server
	go func() {
		if certFile, keyFile := os.Getenv("HTTPS_CERT_FILE"), os.Getenv("HTTPS_KEY_FILE"); certFile != "" && keyFile != "" {
			logger.Log("startup", fmt.Sprintf("binding to %s for secure HTTP server", serve.Addr))
			if err := serve.ListenAndServeTLS(certFile, keyFile); err != nil {
				logger.Log("exit", err)
			}
		} else {
			logger.Log("startup", fmt.Sprintf("binding to %s for HTTP server", serve.Addr))
			if err := serve.ListenAndServe(); err != nil {
				logger.Log("exit", err)
			}
		}
	}()

	if err := <-errs; err != nil {
		logger.Log("exit", err)
	}
}

func readConfig(path string) *config.Config {
	cfg, err := config.FromFile(path)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// capitalOneEndpoint maps the bank's auth settings onto a token service endpoint.
func capitalOneEndpoint(cfg *config.Config) auth.Endpoint {
	a := cfg.CapitalOne.Auth
	return auth.Endpoint{
		ServiceName:  capitalone.ServiceName,
		TokenURL:     a.TokenAddress,
		ClientID:     a.ClientID,
		ClientSecret: a.GetClientSecret(),
		RefreshToken: a.GetRefreshToken(),
		Scopes:       a.Scopes,
	}
}

func setupCapitalOneClient(logger log.Logger, cfg *config.Config, tokens auth.TokenService, svc *admin.Server, httpClient *http.Client) capitalone.Client {
	client := capitalone.NewClient(logger, cfg.CapitalOne, tokens, httpClient)
	if client == nil {
		panic("no Capital One client created")
	}
	svc.AddLivenessCheck("capital-one", client.Ping)
	return client
}

func setupBudgetClient(logger log.Logger, cfg *config.Config, svc *admin.Server, httpClient *http.Client) budget.Client {
	endpoint := util.Or(os.Getenv("BUDGET_ENDPOINT"), cfg.Budget.Endpoint)
	client := budget.NewClient(logger, endpoint, httpClient)
	if client == nil {
		panic("no budget client created")
	}
	svc.AddLivenessCheck("budget", client.Ping)
	return client
}
