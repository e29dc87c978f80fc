// Package search implements the breadth-first path search over the mass
// network: partial paths extend along edges whose mass difference matches an
// indexed reaction delta, with revisit and duplicate-molecule pruning.
package search

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/metabolica/metanet/internal/domain"
	"github.com/metabolica/metanet/internal/network"
	"github.com/metabolica/metanet/internal/reaction"
)

// ErrStartNotFound is returned when the start mass has no node in the space.
var ErrStartNotFound = errors.New("search: start node not found")

// ErrAborted is returned when the search stops before exhausting the
// frontier, either on context cancellation/deadline or on exceeding the
// state budget. Results discovered so far accompany the error.
var ErrAborted = errors.New("search: aborted")

const (
	// DefaultDuplicatePPM prunes candidates chemically identical to a node
	// already on the path but reached through a different adduct key.
	DefaultDuplicatePPM = 10.0
	// DefaultGoalPPM is the arrival tolerance against the end mass.
	DefaultGoalPPM = 20.0
)

// Config bounds and tunes a search run. The duplicate and goal tolerances
// are independent knobs; they happen to differ by a factor of two in the
// defaults but share no derivation.
type Config struct {
	MaxDepth     int
	DuplicatePPM float64
	GoalPPM      float64
	// Workers > 1 drains each depth layer concurrently. Breadth-first
	// layering is preserved; discovery order within a layer is not.
	Workers int
	// MaxStates caps the number of expanded states (0 = unlimited).
	// Exceeding it aborts the run with partial results.
	MaxStates int
}

func (c Config) withDefaults() Config {
	if c.MaxDepth <= 0 {
		c.MaxDepth = 1
	}
	if c.DuplicatePPM <= 0 {
		c.DuplicatePPM = DefaultDuplicatePPM
	}
	if c.GoalPPM <= 0 {
		c.GoalPPM = DefaultGoalPPM
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return c
}

// Engine runs searches against a fixed node space and reaction index. Both
// are read-only for the lifetime of the engine, so a single engine may serve
// concurrent runs.
type Engine struct {
	space  *network.Space
	index  *reaction.Index
	logger *slog.Logger
	cfg    Config
}

// New constructs an engine. A nil logger discards progress output.
func New(space *network.Space, index *reaction.Index, logger *slog.Logger, cfg Config) *Engine {
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	return &Engine{
		space:  space,
		index:  index,
		logger: logger,
		cfg:    cfg.withDefaults(),
	}
}

// state is one frontier entry. The path and used-sets are owned by the
// state's originating branch: a dequeued state only reads them, cloning
// before extension, so siblings spawned from one parent may safely share
// the parent's sets.
type state struct {
	key       string
	depth     int
	path      domain.ResultPath
	usedBases map[string]struct{}
	usedMass  []float64
}

// Run explores all paths from startMass toward endMass up to the configured
// depth, returning completed paths in discovery order. Cancellation or an
// exceeded state budget returns the results found so far with ErrAborted.
func (e *Engine) Run(ctx context.Context, startMass, endMass float64) ([]domain.ResultPath, error) {
	startKey := domain.FormatMass(startMass)
	if _, ok := e.space.Lookup(startKey); !ok {
		return nil, ErrStartNotFound
	}

	root := &state{
		key:       startKey,
		depth:     0,
		usedBases: map[string]struct{}{},
	}

	if e.cfg.Workers > 1 {
		return e.runLayered(ctx, root, endMass)
	}
	return e.runSequential(ctx, root, endMass)
}

func (e *Engine) runSequential(ctx context.Context, root *state, endMass float64) ([]domain.ResultPath, error) {
	queue := []*state{root}
	results := []domain.ResultPath{}
	expanded := 0

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			e.logger.Warn("search aborted", "expanded", expanded, "results", len(results))
			return results, ErrAborted
		default:
		}
		if e.cfg.MaxStates > 0 && expanded >= e.cfg.MaxStates {
			e.logger.Warn("state budget exhausted", "expanded", expanded, "results", len(results))
			return results, ErrAborted
		}

		s := queue[0]
		queue = queue[1:]
		expanded++

		children := e.expand(s, endMass, func(p domain.ResultPath) {
			results = append(results, p)
		})
		queue = append(queue, children...)
	}

	e.logger.Info("search complete", "expanded", expanded, "results", len(results))
	return results, nil
}

// expand applies the transition rules to one dequeued state, emitting
// completed paths through sink and returning the states to enqueue.
func (e *Engine) expand(s *state, endMass float64, sink func(domain.ResultPath)) []*state {
	if s.depth >= e.cfg.MaxDepth {
		return nil
	}
	current, ok := e.space.Lookup(s.key)
	if !ok {
		// Node space never shrinks, so this only happens on a corrupted
		// state; the branch simply contributes no results.
		return nil
	}

	usedBases := make(map[string]struct{}, len(s.usedBases)+1)
	for b := range s.usedBases {
		usedBases[b] = struct{}{}
	}
	usedBases[domain.BaseWeight(s.key)] = struct{}{}

	usedMass := make([]float64, len(s.usedMass), len(s.usedMass)+1)
	copy(usedMass, s.usedMass)
	usedMass = append(usedMass, current.Mass)

	var children []*state
	for _, cand := range e.space.Nodes() {
		if _, used := usedBases[cand.BaseWeight]; used {
			continue
		}
		if e.isDuplicate(cand.Mass, usedMass) {
			continue
		}

		diff := math.Abs(cand.Mass - current.Mass)
		matches := e.index.Lookup(diff)
		if len(matches) == 0 {
			continue
		}

		newPath := s.path.Clone()
		newPath = append(newPath, domain.PathStep{
			Source:    s.key,
			Target:    cand.Key,
			Reactions: matches,
		})

		// Arrival is terminal for the branch: a completed path is never
		// re-enqueued for further extension. The tolerance is relative to
		// the candidate mass, matching the downstream convention.
		if math.Abs(cand.Mass-endMass)/cand.Mass*1e6 < e.cfg.GoalPPM {
			sink(newPath)
			continue
		}
		if s.depth+1 < e.cfg.MaxDepth {
			children = append(children, &state{
				key:       cand.Key,
				depth:     s.depth + 1,
				path:      newPath,
				usedBases: usedBases,
				usedMass:  usedMass,
			})
		}
	}
	return children
}

// isDuplicate reports whether mass is within the duplicate tolerance of any
// mass already traversed, relative to the traversed mass.
func (e *Engine) isDuplicate(mass float64, usedMass []float64) bool {
	for _, m := range usedMass {
		if math.Abs(mass-m)/m*1e6 < e.cfg.DuplicatePPM {
			return true
		}
	}
	return false
}
