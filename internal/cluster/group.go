// Package cluster implements the companion tools around the path search:
// greedy ppm grouping of metabolite identifiers by mass, and deduplication
// of separator-delimited path blocks by neutral-mass equivalence.
package cluster

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/metabolica/metanet/internal/domain"
)

// ErrBadMetabolite indicates an identifier that is not "<rt>_<mass...>".
var ErrBadMetabolite = errors.New("cluster: malformed metabolite identifier")

// DefaultGroupPPM is the grouping threshold.
const DefaultGroupPPM = 10.0

var massPrefix = regexp.MustCompile(`^(\d+\.?\d*)`)

// Metabolite is one parsed "<rt>_<mass>" identifier from a feature list.
type Metabolite struct {
	ID   string
	RT   string
	Mass float64
}

// ParseMetabolite splits an identifier such as "4.27_188.0707m/z" into its
// retention time and leading numeric mass.
func ParseMetabolite(line string) (Metabolite, error) {
	rt, rest, ok := strings.Cut(line, "_")
	if !ok {
		return Metabolite{}, fmt.Errorf("%w: %q has no '_' separator", ErrBadMetabolite, line)
	}
	m := massPrefix.FindString(rest)
	if m == "" {
		return Metabolite{}, fmt.Errorf("%w: %q has no leading mass", ErrBadMetabolite, line)
	}
	mass, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return Metabolite{}, fmt.Errorf("%w: %q: %v", ErrBadMetabolite, line, err)
	}
	return Metabolite{ID: line, RT: rt, Mass: mass}, nil
}

// ReadMetabolites parses one identifier per non-empty line.
func ReadMetabolites(r io.Reader) ([]Metabolite, error) {
	scanner := bufio.NewScanner(r)
	var out []Metabolite
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		m, err := ParseMetabolite(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out = append(out, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read metabolites: %w", err)
	}
	return out, nil
}

// Group is a run of metabolites whose masses sit within the ppm threshold
// of the group's anchor (its lightest member).
type Group struct {
	Anchor  float64
	Members []string
}

// GroupByMass sorts metabolites by mass and sweeps once: a metabolite joins
// the current group while its ppm distance to the anchor (relative to the
// smaller of the two masses) stays within the threshold, otherwise it opens
// a new group. ppm <= 0 falls back to DefaultGroupPPM.
func GroupByMass(metabolites []Metabolite, ppm float64) []Group {
	if ppm <= 0 {
		ppm = DefaultGroupPPM
	}
	sorted := make([]Metabolite, len(metabolites))
	copy(sorted, metabolites)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Mass < sorted[j].Mass })

	var groups []Group
	for _, m := range sorted {
		if len(groups) > 0 && ppmAgainstSmaller(m.Mass, groups[len(groups)-1].Anchor) <= ppm {
			g := &groups[len(groups)-1]
			g.Members = append(g.Members, m.ID)
			continue
		}
		groups = append(groups, Group{Anchor: m.Mass, Members: []string{m.ID}})
	}
	return groups
}

// WriteGroups emits "anchor\tid1,id2,…" lines in ascending anchor order.
func WriteGroups(w io.Writer, groups []Group) error {
	bw := bufio.NewWriter(w)
	for _, g := range groups {
		line := domain.FormatMass(g.Anchor) + "\t" + strings.Join(g.Members, ",")
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("write group: %w", err)
		}
	}
	return bw.Flush()
}

func ppmAgainstSmaller(m1, m2 float64) float64 {
	ref := math.Min(m1, m2)
	return math.Abs(m1-m2) / ref * 1e6
}
