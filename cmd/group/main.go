package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/metabolica/metanet/internal/cluster"
	"github.com/metabolica/metanet/internal/config"
	"github.com/metabolica/metanet/internal/logging"
)

func main() {
	var (
		inPath  = flag.String("in", "", "Path to the metabolite feature list (rt_mass per line)")
		outPath = flag.String("out", "", "Write groups to this file instead of stdout")
		ppm     = flag.Float64("ppm", cluster.DefaultGroupPPM, "Grouping tolerance in ppm")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging).With("component", "group")

	if *inPath == "" {
		logger.Error("missing required -in flag")
		os.Exit(1)
	}

	file, err := os.Open(*inPath)
	if err != nil {
		logger.Error("failed to open input", "error", err, "path", *inPath)
		os.Exit(1)
	}
	defer file.Close()

	metabolites, err := cluster.ReadMetabolites(file)
	if err != nil {
		logger.Error("failed to parse metabolites", "error", err, "path", *inPath)
		os.Exit(1)
	}

	groups := cluster.GroupByMass(metabolites, *ppm)
	logger.Info("grouping complete", "metabolites", len(metabolites), "groups", len(groups), "ppm", *ppm)

	out := io.Writer(os.Stdout)
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Error("failed to create output file", "error", err, "path", *outPath)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if err := cluster.WriteGroups(out, groups); err != nil {
		logger.Error("failed to write groups", "error", err)
		os.Exit(1)
	}
}
