package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/crmdash/leadboard/internal/config"
	"github.com/crmdash/leadboard/internal/crm"
	"github.com/crmdash/leadboard/internal/dashboard"
	"github.com/crmdash/leadboard/internal/httpx"
	"github.com/crmdash/leadboard/internal/metrics"
	"github.com/crmdash/leadboard/internal/store"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	mx := metrics.New()
	cl := crm.NewHTTPClient(cfg.HTTPTimeout)
	st := store.NewLeadStore()
	loader := crm.NewLoader(cl, st, logger, mx, crm.Credentials{
		Domain:        cfg.CRMDomain,
		TokenURL:      cfg.CRMTokenURL,
		ClientID:      cfg.CRMClientID,
		ClientSecret:  cfg.CRMClientSecret,
		Username:      cfg.CRMUsername,
		Password:      cfg.CRMPassword,
		SecurityToken: cfg.CRMToken,
	})
	svc := dashboard.NewService(st, mx)

	r := httpx.NewRouter(logger, loader, svc, mx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
