package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"examnotify/config"
	"examnotify/controllers"
	"examnotify/middlewares"
	"examnotify/notify"
	"examnotify/reconcile"
	"examnotify/router"
	"examnotify/scraper"
	"examnotify/store"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load("./config")
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := config.MigrateDB(db); err != nil {
		logger.Fatal().Err(err).Msg("migrate database")
	}

	cache, err := config.ConnectRedis(cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, listings served uncached")
		cache = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	notifier, err := notify.NewFCM(ctx, cfg.Firebase.CredentialsFile, cfg.Firebase.Topic)
	if err != nil {
		logger.Fatal().Err(err).Msg("init firebase messaging")
	}

	st := store.New(db)
	fetcher := scraper.NewFetcher(
		cfg.Scraper.PageURL,
		cfg.Scraper.BaseURL,
		cfg.Scraper.Selector,
		cfg.Scraper.Timeout,
		logger.With().Str("component", "scraper").Logger(),
	)
	reconciler := reconcile.New(st, logger.With().Str("component", "reconcile").Logger())
	dispatcher := notify.NewDispatcher(notifier, logger.With().Str("component", "notify").Logger())

	nc := controllers.NewNotificationController(
		st, fetcher, reconciler, dispatcher,
		cache, cfg.Redis.ListTTL,
		logger.With().Str("component", "http").Logger(),
	)
	ac := controllers.NewAuthController(db, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	r := router.InitRouter(nc, ac, middlewares.AuthMiddleware(db, cfg.Auth.JWTSecret))

	if cfg.Scraper.PollInterval > 0 {
		go pollLoop(ctx, nc, cfg.Scraper.PollInterval, logger)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown")
	}
	logger.Info().Msg("server exiting")
}

// pollLoop drives the scrape pipeline on a fixed interval when no external
// scheduler hits /scrape. Passes share the controller's mutex, so a tick
// overlapping an HTTP trigger is skipped rather than raced.
func pollLoop(ctx context.Context, nc *controllers.NotificationController, interval time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			result, ok := nc.TriggerScrape(ctx)
			if !ok {
				logger.Debug().Msg("scrape tick skipped, pass in flight")
				continue
			}
			logger.Info().Int("reconciled", result.Reconciled).Msg("scheduled scrape pass finished")
		case <-ctx.Done():
			return
		}
	}
}
