package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/metabolica/metanet/internal/adduct"
	"github.com/metabolica/metanet/internal/config"
	"github.com/metabolica/metanet/internal/graphstore"
	"github.com/metabolica/metanet/internal/logging"
	"github.com/metabolica/metanet/internal/msio"
	"github.com/metabolica/metanet/internal/network"
	"github.com/metabolica/metanet/internal/reaction"
	"github.com/metabolica/metanet/internal/server"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	space, index, err := buildSearchSpace(logger, cfg)
	if err != nil {
		logger.Error("failed to build search space", "error", err)
		os.Exit(1)
	}

	graphClient := buildGraphClient(ctx, logger, cfg)
	defer func() {
		if graphClient != nil {
			if err := graphClient.Close(context.Background()); err != nil {
				logger.Warn("closing graph client failed", "error", err)
			}
		}
	}()

	searchHandler := server.NewSearchHandler(logger, space, index, cfg.Search, cfg.HTTP.SearchTimeout)
	router := server.NewRouter(logger, server.RouterDependencies{
		Health: server.GraphHealthService{Client: graphClient},
		Search: searchHandler,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func buildSearchSpace(logger *slog.Logger, cfg config.Config) (*network.Space, *reaction.Index, error) {
	data := cfg.Data
	if data.AdductFile == "" || data.CentralFile == "" || data.ObservedFile == "" || data.DiffFile == "" {
		return nil, nil, fmt.Errorf("DATA_ADDUCT_FILE, DATA_CENTRAL_FILE, DATA_MZ_FILE and DATA_DIFF_FILE are required")
	}

	rules, err := msio.LoadAdducts(data.AdductFile)
	if err != nil {
		return nil, nil, err
	}
	central, err := msio.LoadMasses(data.CentralFile)
	if err != nil {
		return nil, nil, err
	}
	observed, err := msio.LoadMasses(data.ObservedFile)
	if err != nil {
		return nil, nil, err
	}
	deltas, err := msio.LoadDeltas(data.DiffFile)
	if err != nil {
		return nil, nil, err
	}

	space := network.Build(central, observed, adduct.NewTable(rules))
	index := reaction.NewIndex(deltas, cfg.Search.Epsilon)
	logger.Info("search space ready", "nodes", space.Len(), "intervals", index.Len())
	return space, index, nil
}

// buildGraphClient connects to the export target when one is configured.
// The service runs without it; /healthz just skips the connectivity probe.
func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) graphstore.Client {
	if cfg.Graph.URI == "" {
		return nil
	}
	client, err := graphstore.NewNeo4jClient(ctx, graphstore.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		logger.Warn("graph export unavailable", "error", err, "uri", cfg.Graph.URI)
		return nil
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client
}
