// Package reaction indexes known reaction mass deltas as tolerance intervals
// for fast lookup by an observed mass difference.
package reaction

import (
	"sort"

	"github.com/metabolica/metanet/internal/domain"
)

// DefaultEpsilon is the half-width, in Daltons, of the tolerance interval
// built around each reaction delta.
const DefaultEpsilon = 0.005

type interval struct {
	lower   float64
	upper   float64
	entries map[string]struct{}
}

// Index holds tolerance intervals sorted by lower bound. Read-only after
// construction, safe for concurrent lookups.
type Index struct {
	intervals []interval
	epsilon   float64
}

// NewIndex builds the interval index from raw delta records. Each record
// yields the interval [diff-ε, diff+ε]; records producing identical bounds
// merge their entry IDs. epsilon <= 0 falls back to DefaultEpsilon.
func NewIndex(records []domain.ReactionDelta, epsilon float64) *Index {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	byBounds := make(map[[2]float64]map[string]struct{}, len(records))
	for _, rec := range records {
		bounds := [2]float64{rec.DiffMass - epsilon, rec.DiffMass + epsilon}
		set, ok := byBounds[bounds]
		if !ok {
			set = make(map[string]struct{})
			byBounds[bounds] = set
		}
		set[rec.EntryID] = struct{}{}
	}

	ix := &Index{
		intervals: make([]interval, 0, len(byBounds)),
		epsilon:   epsilon,
	}
	for bounds, entries := range byBounds {
		ix.intervals = append(ix.intervals, interval{lower: bounds[0], upper: bounds[1], entries: entries})
	}
	sort.Slice(ix.intervals, func(i, j int) bool {
		return ix.intervals[i].lower < ix.intervals[j].lower
	})
	return ix
}

// Epsilon reports the interval half-width in use.
func (ix *Index) Epsilon() float64 {
	return ix.epsilon
}

// Len reports the number of distinct intervals.
func (ix *Index) Len() int {
	return len(ix.intervals)
}

// Lookup returns the entry IDs of every reaction whose tolerance interval
// contains diff, sorted for determinism. An empty result is the normal
// "no known reaction explains this gap" outcome, not an error.
//
// Intervals are sorted only by lower bound, so the scan around the binary
// search position must extend ±2ε: an interval whose lower bound sits well
// below diff may still contain diff. The window keeps the scan bounded
// without a full linear pass.
func (ix *Index) Lookup(diff float64) []string {
	if len(ix.intervals) == 0 {
		return nil
	}

	pos := sort.Search(len(ix.intervals), func(i int) bool {
		return ix.intervals[i].lower >= diff
	})

	var matched map[string]struct{}
	collect := func(iv interval) {
		if iv.lower <= diff && diff <= iv.upper {
			if matched == nil {
				matched = make(map[string]struct{}, len(iv.entries))
			}
			for id := range iv.entries {
				matched[id] = struct{}{}
			}
		}
	}

	window := 2 * ix.epsilon
	for i := pos - 1; i >= 0; i-- {
		if ix.intervals[i].lower < diff-window {
			break
		}
		collect(ix.intervals[i])
	}
	for i := pos; i < len(ix.intervals); i++ {
		if ix.intervals[i].lower > diff+window {
			break
		}
		collect(ix.intervals[i])
	}

	if len(matched) == 0 {
		return nil
	}
	out := make([]string, 0, len(matched))
	for id := range matched {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
