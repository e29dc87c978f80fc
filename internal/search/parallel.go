package search

import (
	"context"
	"log/slog"
	"sync"

	"github.com/metabolica/metanet/internal/domain"
)

// runLayered drains the frontier one depth layer at a time with a worker
// pool. Workers only read the shared node space and index plus their own
// states, so the only synchronization points are the result sink and the
// next-layer accumulator. The layer barrier keeps the breadth-first
// guarantee: every path of depth d is discovered before any of depth d+1.
func (e *Engine) runLayered(ctx context.Context, root *state, endMass float64) ([]domain.ResultPath, error) {
	layer := []*state{root}
	results := []domain.ResultPath{}
	expanded := 0

	for depth := 0; len(layer) > 0; depth++ {
		if e.cfg.MaxStates > 0 && expanded >= e.cfg.MaxStates {
			e.logger.Warn("state budget exhausted", "expanded", expanded, "results", len(results))
			return results, ErrAborted
		}

		var (
			mu        sync.Mutex
			nextLayer []*state
		)
		indexCh := make(chan int)
		var wg sync.WaitGroup

		worker := func() {
			defer wg.Done()
			for idx := range indexCh {
				children := e.expand(layer[idx], endMass, func(p domain.ResultPath) {
					mu.Lock()
					results = append(results, p)
					mu.Unlock()
				})
				if len(children) > 0 {
					mu.Lock()
					nextLayer = append(nextLayer, children...)
					mu.Unlock()
				}
			}
		}

		for i := 0; i < e.cfg.Workers; i++ {
			wg.Add(1)
			go worker()
		}

		aborted := false
	Feed:
		for i := range layer {
			select {
			case indexCh <- i:
				expanded++
			case <-ctx.Done():
				aborted = true
				break Feed
			}
		}
		close(indexCh)
		wg.Wait()

		if aborted {
			e.logger.Warn("search aborted", "depth", depth, "expanded", expanded, "results", len(results))
			return results, ErrAborted
		}

		e.logger.Debug("layer complete",
			"depth", depth,
			"layer_size", len(layer),
			"next_layer", len(nextLayer),
			"results", len(results),
		)
		layer = nextLayer
	}

	e.logger.Info("search complete", "expanded", expanded, "results", len(results))
	return results, nil
}

// discardHandler drops all records; used when no logger is supplied.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }
