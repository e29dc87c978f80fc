package search

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metabolica/metanet/internal/domain"
	"github.com/metabolica/metanet/internal/network"
	"github.com/metabolica/metanet/internal/reaction"
)

// canonical renders a result set in an order-independent form.
func canonical(paths []domain.ResultPath) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		s := ""
		for _, step := range p {
			s += fmt.Sprintf("%s>%s%v|", step.Source, step.Target, step.Reactions)
		}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func randomFixture(t *testing.T, seed int64) (*network.Space, *reaction.Index, float64, float64) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))

	central := []float64{300.0}
	for i := 0; i < 40; i++ {
		central = append(central, 300.0+float64(i)*rng.Float64()*10)
	}
	observed := make([]float64, 15)
	for i := range observed {
		observed[i] = 300.0 + rng.Float64()*120
	}
	space := buildSpace(t, central, observed, map[string]float64{
		"+H": 1.007825,
		"-H": 1.007825,
	})

	records := make([]domain.ReactionDelta, 60)
	for i := range records {
		records[i] = domain.ReactionDelta{
			EntryID:  fmt.Sprintf("R%02d", i),
			DiffMass: rng.Float64() * 40,
		}
	}
	// Wide tolerance keeps the branching factor honest.
	index := reaction.NewIndex(records, 0.05)

	// Aim at a real node so runs actually produce paths.
	end := central[1+rng.Intn(len(central)-1)]
	return space, index, 300.0, end
}

func TestRunLayered_MatchesSequential(t *testing.T) {
	for seed := int64(1); seed <= 3; seed++ {
		space, index, start, end := randomFixture(t, seed)

		seq := New(space, index, nil, Config{MaxDepth: 3, Workers: 1})
		par := New(space, index, nil, Config{MaxDepth: 3, Workers: 4})

		seqPaths, err := seq.Run(context.Background(), start, end)
		require.NoError(t, err)
		parPaths, err := par.Run(context.Background(), start, end)
		require.NoError(t, err)

		assert.Equal(t, canonical(seqPaths), canonical(parPaths), "seed %d", seed)
	}
}

func TestRunLayered_DepthBound(t *testing.T) {
	space, index, start, end := randomFixture(t, 11)
	engine := New(space, index, nil, Config{MaxDepth: 2, Workers: 4})

	paths, err := engine.Run(context.Background(), start, end)
	require.NoError(t, err)
	for _, p := range paths {
		assert.LessOrEqual(t, len(p), 2)
	}
}

func TestRunLayered_AbortOnCancelledContext(t *testing.T) {
	space, index, start, end := randomFixture(t, 5)
	engine := New(space, index, nil, Config{MaxDepth: 3, Workers: 4})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Run(ctx, start, end)
	assert.ErrorIs(t, err, ErrAborted)
}

func TestRun_ResultInvariants(t *testing.T) {
	space, index, start, end := randomFixture(t, 9)
	cfg := Config{MaxDepth: 3}
	engine := New(space, index, nil, cfg)

	paths, err := engine.Run(context.Background(), start, end)
	require.NoError(t, err)

	for _, path := range paths {
		// No two steps may target the same compound.
		bases := map[string]struct{}{}
		for _, step := range path {
			base := domain.BaseWeight(step.Target)
			_, seen := bases[base]
			assert.False(t, seen, "base %s repeated in %v", base, path)
			bases[base] = struct{}{}
		}

		// Every final target must satisfy the goal tolerance.
		last := path[len(path)-1]
		node, ok := space.Lookup(last.Target)
		require.True(t, ok)
		goalPPM := (node.Mass - end) / node.Mass * 1e6
		if goalPPM < 0 {
			goalPPM = -goalPPM
		}
		assert.Less(t, goalPPM, DefaultGoalPPM)

		// And every traversed pair of masses must respect the duplicate
		// tolerance.
		masses := []float64{}
		if startNode, ok := space.Lookup(path[0].Source); ok {
			masses = append(masses, startNode.Mass)
		}
		for _, step := range path {
			n, ok := space.Lookup(step.Target)
			require.True(t, ok)
			masses = append(masses, n.Mass)
		}
		for i := range masses {
			for j := i + 1; j < len(masses); j++ {
				diff := (masses[j] - masses[i]) / masses[i] * 1e6
				if diff < 0 {
					diff = -diff
				}
				assert.GreaterOrEqual(t, diff, DefaultDuplicatePPM, "masses %v and %v too close in %v", masses[i], masses[j], path)
			}
		}
	}
}

// TestRun_Idempotent re-runs an identical search and expects identical
// results in identical order.
func TestRun_Idempotent(t *testing.T) {
	space, index, start, end := randomFixture(t, 21)
	engine := New(space, index, nil, Config{MaxDepth: 3})

	first, err := engine.Run(context.Background(), start, end)
	require.NoError(t, err)
	second, err := engine.Run(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
