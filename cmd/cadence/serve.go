package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cadence/internal/cache"
	"cadence/internal/catalog"
	"cadence/internal/database"
	"cadence/internal/metadata"
	"cadence/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(parent context.Context, opts *options) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, logger, err := setup(opts)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	if cfg.Catalog.ProbeMedia {
		if _, err := os.Stat(cfg.Catalog.MediaDir); os.IsNotExist(err) {
			logger.WithField("media_dir", cfg.Catalog.MediaDir).Warn("Media directory does not exist, songs keep their dataset durations")
		}
	}

	prober := metadata.NewProber(cfg.Catalog.MediaDir, cfg.Catalog.SupportedFormats, logger)
	defer prober.Close()

	load := catalogLoader(cfg, prober)
	c, err := load(cfg.Catalog.DataPath)
	if err != nil {
		return fmt.Errorf("error loading catalog: %w", err)
	}
	if c.Len() == 0 {
		logger.WithField("data_path", cfg.Catalog.DataPath).Warn("Catalog contains no songs")
	}

	var store server.Backend
	switch cfg.Storage.Driver {
	case "memory":
		kv := cache.NewKVStore()
		defer kv.Close()
		store = kv
		logger.Warn("Using in-memory storage, client data is lost on restart")
	default:
		db, err := database.NewDatabase(cfg.Storage.Path, cfg.Storage.MaxConnections, logger)
		if err != nil {
			return fmt.Errorf("error initializing database: %w", err)
		}
		defer db.Close()
		store = db
	}

	musicServer, err := server.NewMusicServer(cfg, logger, server.Dependencies{
		Catalog: catalog.NewStore(c),
		Store:   store,
		Prober:  prober,
		Load:    load,
	})
	if err != nil {
		return fmt.Errorf("error creating music server: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		errs <- musicServer.Start(ctx)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	return musicServer.Shutdown(shutdownCtx)
}
