// Package main provides a CLI tool that publishes an asset file to the
// Postgres or Redis store the dashboard can load from.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/asset-dashboard/internal/config"
	"github.com/asset-dashboard/internal/logging"
	"github.com/asset-dashboard/internal/source"
	"github.com/asset-dashboard/internal/storage"
	"github.com/asset-dashboard/internal/store"
)

func main() {
	var (
		file   = flag.String("file", "assets.json", "JSON asset list to publish")
		target = flag.String("target", "postgres", "Destination: postgres, redis")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logging.InitGlobalLogger(logging.ParseLogLevel(cfg.Logging.Level), logging.ParseLogFormat(cfg.Logging.Format))
	logger := logging.GetGlobalLogger().WithFields(map[string]interface{}{
		"file":   *file,
		"target": *target,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	assets, err := source.NewFileSource(*file).Fetch(ctx)
	if err != nil {
		logger.WithError(err).Fatal("Failed to read asset file")
	}
	if err := store.Validate(assets); err != nil {
		logger.WithError(err).Fatal("Asset file is invalid")
	}

	switch *target {
	case "postgres":
		if err := storage.RunMigrations(cfg.Database.Postgres.URL()); err != nil {
			logger.WithError(err).Fatal("Failed to migrate Postgres")
		}

		db, err := storage.NewPostgresDB(ctx, &cfg.Database.Postgres)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Postgres")
		}
		defer db.Close()

		n, err := storage.NewAssetRepository(db).ReplaceAll(ctx, assets)
		if err != nil {
			logger.WithError(err).Fatal("Failed to seed Postgres")
		}
		logger.WithField("count", n).Info("Assets written to Postgres")

	case "redis":
		rs, err := storage.NewRedisStore(ctx, &cfg.Database.Redis)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer rs.Close()

		if err := source.NewRedisSource(rs.Client(), cfg.Source.RedisKey).Publish(ctx, assets); err != nil {
			logger.WithError(err).Fatal("Failed to seed Redis")
		}
		logger.WithFields(map[string]interface{}{
			"count": len(assets),
			"key":   cfg.Source.RedisKey,
		}).Info("Assets written to Redis")

	default:
		logger.Fatal("Unknown target: " + *target)
	}
}
