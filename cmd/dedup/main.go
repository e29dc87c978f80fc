package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/metabolica/metanet/internal/adduct"
	"github.com/metabolica/metanet/internal/cluster"
	"github.com/metabolica/metanet/internal/config"
	"github.com/metabolica/metanet/internal/logging"
	"github.com/metabolica/metanet/internal/msio"
)

func main() {
	var (
		clusterPath = flag.String("clusters", "clust.txt", "Path to the separator-delimited cluster file")
		adductPath  = flag.String("adducts", "adduct_file.txt", "Path to the adduct table")
		outPath     = flag.String("out", "deduped_clusters.txt", "Output file for deduplicated clusters")
		ppm         = flag.Float64("ppm", cluster.DefaultDedupPPM, "Neutral-mass tolerance in ppm")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging).With("component", "dedup")

	rules, err := msio.LoadAdducts(*adductPath)
	if err != nil {
		logger.Error("failed to load adduct table", "error", err, "path", *adductPath)
		os.Exit(1)
	}

	file, err := os.Open(*clusterPath)
	if err != nil {
		logger.Error("failed to open cluster file", "error", err, "path", *clusterPath)
		os.Exit(1)
	}
	defer file.Close()

	blocks, err := msio.ReadBlocks(file)
	if err != nil {
		logger.Error("failed to parse cluster blocks", "error", err, "path", *clusterPath)
		os.Exit(1)
	}

	deduper := cluster.NewDeduper(adduct.NewTable(rules), *ppm, logger)
	unique, err := deduper.Dedup(blocks)
	if err != nil {
		logger.Error("deduplication failed", "error", err)
		os.Exit(1)
	}
	logger.Info("deduplication complete", "blocks", len(blocks), "kept", len(unique), "ppm", *ppm)

	out, err := os.Create(*outPath)
	if err != nil {
		logger.Error("failed to create output file", "error", err, "path", *outPath)
		os.Exit(1)
	}
	defer out.Close()

	if err := msio.WritePaths(out, unique); err != nil {
		logger.Error("failed to write clusters", "error", err)
		os.Exit(1)
	}
}
