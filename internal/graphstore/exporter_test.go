package graphstore

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metabolica/metanet/internal/adduct"
	"github.com/metabolica/metanet/internal/domain"
	"github.com/metabolica/metanet/internal/network"
)

func exportFixture(t *testing.T) (*network.Space, []domain.ResultPath) {
	t.Helper()
	rule, err := adduct.ParseRule("+H", 1.007825)
	require.NoError(t, err)
	space := network.Build([]float64{175.0634, 203.0947}, []float64{188.0707}, adduct.NewTable([]domain.AdductRule{rule}))

	paths := []domain.ResultPath{
		{
			{Source: "175.0634", Target: "188.0707+H", Reactions: []string{"R1"}},
			{Source: "188.0707+H", Target: "203.0947", Reactions: []string{"R2"}},
		},
	}
	return space, paths
}

func TestExportPaths(t *testing.T) {
	space, paths := exportFixture(t)
	mem := NewMemoryClient()

	exporter := NewExporter(mem, nil)
	runID, err := exporter.ExportPaths(context.Background(), paths, space)
	require.NoError(t, err)
	require.NoError(t, uuid.Validate(runID))

	writes := mem.Writes()
	require.Len(t, writes, 2)

	first := writes[0].Params
	assert.Equal(t, runID, first["runId"])
	assert.Equal(t, "175.0634", first["sourceKey"])
	assert.Equal(t, "188.0707+H", first["targetKey"])
	assert.Equal(t, "188.0707", first["targetBase"])
	assert.InDelta(t, 187.062875, first["targetMass"].(float64), 1e-9)
	assert.Equal(t, []any{"R1"}, first["entries"])

	second := writes[1].Params
	assert.Equal(t, runID, second["runId"])
	assert.Equal(t, "203.0947", second["targetKey"])
}

func TestExportPaths_UnknownKeyFallsBack(t *testing.T) {
	mem := NewMemoryClient()
	exporter := NewExporter(mem, nil)

	paths := []domain.ResultPath{
		{{Source: "999.9+H", Target: "1000.1", Reactions: []string{"R9"}}},
	}
	_, err := exporter.ExportPaths(context.Background(), paths, nil)
	require.NoError(t, err)

	params := mem.Writes()[0].Params
	assert.Equal(t, "999.9", params["sourceBase"])
	assert.Nil(t, params["sourceMass"])
}

func TestExportPaths_WriteFailure(t *testing.T) {
	space, paths := exportFixture(t)
	boom := errors.New("bolt connection lost")
	mem := NewMemoryClient().WithError(boom)

	exporter := NewExporter(mem, nil)
	_, err := exporter.ExportPaths(context.Background(), paths, space)
	assert.ErrorIs(t, err, boom)
}

func TestMemoryClient_Connectivity(t *testing.T) {
	mem := NewMemoryClient()
	assert.NoError(t, mem.VerifyConnectivity(context.Background()))

	degraded := errors.New("unreachable")
	mem.WithConnectivityError(degraded)
	assert.ErrorIs(t, mem.VerifyConnectivity(context.Background()), degraded)
}
