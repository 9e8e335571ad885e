// Package main provides the entry point for the asset dashboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asset-dashboard/internal/api"
	"github.com/asset-dashboard/internal/config"
	"github.com/asset-dashboard/internal/logging"
	"github.com/asset-dashboard/internal/session"
	"github.com/asset-dashboard/internal/source"
	"github.com/asset-dashboard/internal/storage"
	"github.com/asset-dashboard/internal/store"
	"github.com/asset-dashboard/internal/viewstate"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logging.InitGlobalLogger(logging.ParseLogLevel(cfg.Logging.Level), logging.ParseLogFormat(cfg.Logging.Format))
	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
		"source": cfg.Source.Kind,
	}).Info("Asset dashboard starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open asset source")
	}
	defer closeSource()

	sess := session.New(store.NewAssetStore(src), session.Options{
		SettleDelay: cfg.Session.SettleDelay,
		LoadTimeout: cfg.Session.LoadTimeout,
		Identity:    viewstate.StubIdentity(cfg.Session.StubIdentity),
		Logger:      logger,
	})
	defer sess.Close()

	if err := sess.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to start session")
	}

	serverConfig := &api.ServerConfig{
		Host:              cfg.Server.Host,
		Port:              cfg.Server.Port,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	}
	server := api.NewServer(serverConfig, sess, logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	logger.WithField("url", fmt.Sprintf("http://%s:%s/", cfg.Server.Host, cfg.Server.Port)).Info("Dashboard available")

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		logger.WithError(err).Error("Server failed")
	}

	logger.Info("Shutting down...")

	// Teardown first so a pending load or settle timer cannot fire during shutdown
	sess.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
		os.Exit(1)
	}

	logger.Info("Dashboard exited")
}

// openSource builds the configured asset source. The returned func releases
// any connection the source holds.
func openSource(ctx context.Context, cfg *config.Config) (source.Source, func(), error) {
	noop := func() {}

	switch cfg.Source.Kind {
	case config.SourceFile:
		return source.NewFileSource(cfg.Source.FilePath), noop, nil

	case config.SourceHTTP:
		return source.NewHTTPSource(cfg.Source.URL, nil, cfg.Source.HTTPTimeout), noop, nil

	case config.SourcePostgres:
		db, err := storage.NewPostgresDB(ctx, &cfg.Database.Postgres)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		return source.NewPostgresSource(db.Pool()), db.Close, nil

	case config.SourceRedis:
		rs, err := storage.NewRedisStore(ctx, &cfg.Database.Redis)
		if err != nil {
			return nil, noop, err
		}
		return source.NewRedisSource(rs.Client(), cfg.Source.RedisKey), func() { _ = rs.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown asset source %q", cfg.Source.Kind)
	}
}
