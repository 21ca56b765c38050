package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finesse/internal/cache"
	"finesse/internal/config"
	"finesse/internal/infra"
	"finesse/internal/router"
	"finesse/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// @title Finesse API
// @version 1.0
// @description Precificação de serviços da clínica.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := infra.NewDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	// Worker handlers are wired here (composition root) so the pool has
	// access to the mailer and cache without going through the router.
	var mailer *infra.Mailer
	if cfg.SMTPEnabled() {
		mailer = infra.NewMailer(cfg)
	}
	precosCache := cache.NewPrecosCache(rdb, time.Duration(cfg.PrecosCacheTTLMinutes)*time.Minute)
	var precoWorker *worker.PrecoWorker
	if mailer != nil {
		precoWorker = worker.NewPrecoWorker(precosCache, mailer, infra.NewCircuitBreaker(infra.DefaultCBConfig()))
	} else {
		precoWorker = worker.NewPrecoWorker(precosCache, nil, nil)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.New(ctx, cfg, db, rdb),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.RunWorkerPool(gctx, rdb, precoWorker.Handlers(), cfg.WorkerPoolSize)
	})
	g.Go(func() error {
		log.Info().Msgf("Finesse backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	// Graceful shutdown on SIGINT / SIGTERM
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server exited")
}
