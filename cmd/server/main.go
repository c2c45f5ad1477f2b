package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rohittgajula/IMDB-clone/internal/auth"
	"github.com/rohittgajula/IMDB-clone/internal/config"
	httpserver "github.com/rohittgajula/IMDB-clone/internal/http"
	"github.com/rohittgajula/IMDB-clone/internal/logger"
	"github.com/rohittgajula/IMDB-clone/internal/metrics"
	"github.com/rohittgajula/IMDB-clone/internal/repository"
	"github.com/rohittgajula/IMDB-clone/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	dbCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.DBConnTimeoutSecs)*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		AutoMigrate:            cfg.DBAutoMigrate,
		Logger:                 lg,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		lg.Fatal("connect database", zap.Error(err))
	}
	defer st.Close()

	m := metrics.New()
	m.RegisterPool(st.Stats)

	repo := repository.New(st)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	server := httpserver.New(cfg, st, repo, tokens, m, lg)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("server error", zap.Error(err))
		}
	case <-ctx.Done():
		lg.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Error("graceful shutdown error", zap.Error(err))
	}
}
