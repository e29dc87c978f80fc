package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/metabolica/metanet/internal/adduct"
	"github.com/metabolica/metanet/internal/config"
	"github.com/metabolica/metanet/internal/domain"
	"github.com/metabolica/metanet/internal/graphstore"
	"github.com/metabolica/metanet/internal/logging"
	"github.com/metabolica/metanet/internal/msio"
	"github.com/metabolica/metanet/internal/network"
	"github.com/metabolica/metanet/internal/reaction"
	"github.com/metabolica/metanet/internal/search"
)

func main() {
	var (
		centralFile = flag.String("central", "central.txt", "Path to the central mass list")
		mzFile      = flag.String("mz", "mz.txt", "Path to the observed (mz) mass list")
		diffFile    = flag.String("diff", "diff.txt", "Path to the reaction difference table")
		adductFile  = flag.String("adducts", "adduct_file.txt", "Path to the adduct table")
		startWeight = flag.Float64("start-weight", 175.0634, "Starting mass for matches")
		endWeight   = flag.Float64("end-weight", 204.0905, "End mass to determine when to stop")
		maxDepth    = flag.Int("max-depth", 5, "Maximum depth to search in the network")
		workers     = flag.Int("workers", 0, "Concurrent workers per depth layer (0 = from env/sequential)")
		timeout     = flag.Duration("timeout", 0, "Abort the search after this duration (0 = no limit)")
		outPath     = flag.String("out", "", "Write result paths to this file instead of stdout")
		exportGraph = flag.Bool("export-graph", false, "Export discovered paths to the configured graph store")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "search")

	rules, err := msio.LoadAdducts(*adductFile)
	if err != nil {
		logger.Error("failed to load adduct table", "error", err, "path", *adductFile)
		os.Exit(1)
	}
	central, err := msio.LoadMasses(*centralFile)
	if err != nil {
		logger.Error("failed to load central masses", "error", err, "path", *centralFile)
		os.Exit(1)
	}
	observed, err := msio.LoadMasses(*mzFile)
	if err != nil {
		logger.Error("failed to load observed masses", "error", err, "path", *mzFile)
		os.Exit(1)
	}
	deltas, err := msio.LoadDeltas(*diffFile)
	if err != nil {
		logger.Error("failed to load reaction deltas", "error", err, "path", *diffFile)
		os.Exit(1)
	}

	table := adduct.NewTable(rules)
	space := network.Build(central, observed, table)
	index := reaction.NewIndex(deltas, cfg.Search.Epsilon)
	logger.Info("search space ready",
		"nodes", space.Len(),
		"intervals", index.Len(),
		"central", len(central),
		"observed", len(observed),
		"adducts", table.Len(),
	)

	searchCfg := search.Config{
		MaxDepth:     *maxDepth,
		DuplicatePPM: cfg.Search.DuplicatePPM,
		GoalPPM:      cfg.Search.GoalPPM,
		Workers:      cfg.Search.Workers,
		MaxStates:    cfg.Search.MaxStates,
	}
	if *workers > 0 {
		searchCfg.Workers = *workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	engine := search.New(space, index, logger, searchCfg)

	start := time.Now()
	paths, err := engine.Run(ctx, *startWeight, *endWeight)
	aborted := errors.Is(err, search.ErrAborted)
	if err != nil && !aborted {
		logger.Error("search failed", "error", err)
		os.Exit(1)
	}
	logger.Info("search finished",
		"paths", len(paths),
		"aborted", aborted,
		"duration", time.Since(start).String(),
	)

	out := io.Writer(os.Stdout)
	if *outPath != "" {
		file, err := os.Create(*outPath)
		if err != nil {
			logger.Error("failed to create output file", "error", err, "path", *outPath)
			os.Exit(1)
		}
		defer file.Close()
		out = file
	}
	if err := msio.WritePaths(out, paths); err != nil {
		logger.Error("failed to write paths", "error", err)
		os.Exit(1)
	}

	if *exportGraph && len(paths) > 0 {
		if err := exportPaths(ctx, logger, cfg, paths, space); err != nil {
			logger.Error("graph export failed", "error", err)
			os.Exit(1)
		}
	}

	if aborted {
		os.Exit(2)
	}
}

func exportPaths(ctx context.Context, logger *slog.Logger, cfg config.Config, paths []domain.ResultPath, space *network.Space) error {
	if cfg.Graph.URI == "" {
		return graphstore.ErrMissingURI
	}
	client, err := graphstore.NewNeo4jClient(ctx, graphstore.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	exporter := graphstore.NewExporter(client, logger)
	runID, err := exporter.ExportPaths(ctx, paths, space)
	if err != nil {
		return err
	}
	logger.Info("paths exported", "run_id", runID, "uri", cfg.Graph.URI)
	return nil
}
