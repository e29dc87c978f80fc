package graphstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/metabolica/metanet/internal/domain"
	"github.com/metabolica/metanet/internal/network"
)

const mergeStepCypher = `
MERGE (s:Metabolite {key: $sourceKey})
SET s.base_weight = $sourceBase, s.mass = $sourceMass
MERGE (t:Metabolite {key: $targetKey})
SET t.base_weight = $targetBase, t.mass = $targetMass
MERGE (s)-[r:REACTION {run_id: $runId, entries: $entries}]->(t)
`

// Exporter writes discovered paths into the graph store, tagging every
// relationship with the run ID so separate exports stay distinguishable.
type Exporter struct {
	client Client
	logger *slog.Logger
}

// NewExporter constructs an Exporter.
func NewExporter(client Client, logger *slog.Logger) *Exporter {
	return &Exporter{client: client, logger: logger}
}

// ExportPaths merges every step of every path into the graph, resolving node
// properties from the space when the key is known there. Returns the run ID
// assigned to this export.
func (e *Exporter) ExportPaths(ctx context.Context, paths []domain.ResultPath, space *network.Space) (string, error) {
	runID := uuid.NewString()
	steps := 0
	for _, path := range paths {
		for _, step := range path {
			// The driver wants plain []any for list parameters.
			entries := make([]any, len(step.Reactions))
			for i, id := range step.Reactions {
				entries[i] = id
			}
			params := map[string]any{
				"runId":     runID,
				"entries":   entries,
				"sourceKey": step.Source,
				"targetKey": step.Target,
			}
			fillNodeParams(params, "source", step.Source, space)
			fillNodeParams(params, "target", step.Target, space)
			if err := e.client.ExecuteWrite(ctx, mergeStepCypher, params); err != nil {
				return runID, fmt.Errorf("export step %s -> %s: %w", step.Source, step.Target, err)
			}
			steps++
		}
	}
	if e.logger != nil {
		e.logger.Info("exported paths", "run_id", runID, "paths", len(paths), "steps", steps)
	}
	return runID, nil
}

func fillNodeParams(params map[string]any, prefix, key string, space *network.Space) {
	base := domain.BaseWeight(key)
	var mass any
	if space != nil {
		if node, ok := space.Lookup(key); ok {
			base = node.BaseWeight
			mass = node.Mass
		}
	}
	params[prefix+"Base"] = base
	params[prefix+"Mass"] = mass
}
