package cluster

import (
	"log/slog"
	"strings"

	"github.com/metabolica/metanet/internal/adduct"
	"github.com/metabolica/metanet/internal/domain"
)

// DefaultDedupPPM is the neutral-mass tolerance for block equivalence.
const DefaultDedupPPM = 20.0

// Deduper collapses path blocks that describe the same underlying chain of
// molecules through different adduct keys.
type Deduper struct {
	adducts *adduct.Table
	ppm     float64
	logger  *slog.Logger
}

// NewDeduper builds a deduper over the given adduct table. ppm <= 0 falls
// back to DefaultDedupPPM. A nil logger is allowed.
func NewDeduper(adducts *adduct.Table, ppm float64, logger *slog.Logger) *Deduper {
	if ppm <= 0 {
		ppm = DefaultDedupPPM
	}
	return &Deduper{adducts: adducts, ppm: ppm, logger: logger}
}

type blockProfile struct {
	// masses holds the neutral (source, target) mass pair of every step.
	masses [][2]float64
	// symbols counts '+'/'-' occurrences across all step keys; among
	// equivalent blocks the one with fewer adduct symbols is kept.
	symbols int
}

// Dedup returns the blocks with redundant ones removed. Block order follows
// first appearance; a later equivalent block with fewer adduct symbols
// replaces the earlier one in place.
func (d *Deduper) Dedup(blocks []domain.ResultPath) ([]domain.ResultPath, error) {
	var (
		unique   []domain.ResultPath
		profiles []blockProfile
	)
	for _, block := range blocks {
		profile, err := d.profile(block)
		if err != nil {
			return nil, err
		}
		idx := d.findEquivalent(profiles, profile)
		if idx < 0 {
			unique = append(unique, block)
			profiles = append(profiles, profile)
			continue
		}
		if profile.symbols < profiles[idx].symbols {
			unique[idx] = block
			profiles[idx] = profile
		}
		if d.logger != nil {
			d.logger.Debug("dropped redundant block", "steps", len(block), "kept_index", idx)
		}
	}
	return unique, nil
}

func (d *Deduper) profile(block domain.ResultPath) (blockProfile, error) {
	p := blockProfile{masses: make([][2]float64, 0, len(block))}
	for _, step := range block {
		src, err := d.adducts.Neutral(step.Source)
		if err != nil {
			return blockProfile{}, err
		}
		tgt, err := d.adducts.Neutral(step.Target)
		if err != nil {
			return blockProfile{}, err
		}
		p.masses = append(p.masses, [2]float64{src, tgt})
		p.symbols += countSymbols(step.Source) + countSymbols(step.Target)
	}
	return p, nil
}

func (d *Deduper) findEquivalent(profiles []blockProfile, cand blockProfile) int {
	for i, u := range profiles {
		if len(u.masses) != len(cand.masses) {
			continue
		}
		same := true
		for j := range cand.masses {
			if domain.PPMDiff(u.masses[j][0], cand.masses[j][0]) > d.ppm ||
				domain.PPMDiff(u.masses[j][1], cand.masses[j][1]) > d.ppm {
				same = false
				break
			}
		}
		if same {
			return i
		}
	}
	return -1
}

func countSymbols(key string) int {
	return strings.Count(key, "+") + strings.Count(key, "-")
}
