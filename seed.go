package main

import (
	"fmt"

	"github.com/blavejr/plantcareAI/config"
	"github.com/blavejr/plantcareAI/logging"
	"github.com/blavejr/plantcareAI/services"
	"github.com/blavejr/plantcareAI/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var source services.ContentSource = storage.NewEmbeddedSource()
	if seedFile != "" {
		source = storage.NewFileSource(seedFile)
	}
	records, err := source.LoadCountries(ctx)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	store, err := storage.NewMongoStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureCountryIndex(ctx); err != nil {
		return err
	}
	if err := store.Seed(ctx, records); err != nil {
		return err
	}

	total, err := store.CountCountries(ctx)
	if err != nil {
		return err
	}
	logger.Info("seed complete",
		zap.Int("records", len(records)),
		zap.Int64("collection_total", total),
		zap.String("database", cfg.MongoDatabase),
		zap.String("collection", cfg.MongoCollection),
	)
	return nil
}
