// Package adduct maintains the table of ionization adduct rules used to
// expand observed masses into candidate node masses and to recover neutral
// masses from adduct-suffixed node keys.
package adduct

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/metabolica/metanet/internal/domain"
)

// ErrBadRule indicates an adduct table row that could not be parsed.
var ErrBadRule = errors.New("adduct: malformed rule")

// ErrUnknownAdduct indicates a node key referencing an adduct label that is
// not present in the table.
var ErrUnknownAdduct = errors.New("adduct: unknown adduct label")

// ParseRule builds a rule from a signed label ("+H", "-H2O") and its mass.
func ParseRule(labelWithSign string, mass float64) (domain.AdductRule, error) {
	if len(labelWithSign) < 2 {
		return domain.AdductRule{}, fmt.Errorf("%w: label %q too short", ErrBadRule, labelWithSign)
	}
	sign := labelWithSign[0]
	if sign != '+' && sign != '-' {
		return domain.AdductRule{}, fmt.Errorf("%w: label %q must start with '+' or '-'", ErrBadRule, labelWithSign)
	}
	return domain.AdductRule{
		Ion:  labelWithSign[1:],
		Sign: domain.AdductSign(sign),
		Mass: mass,
	}, nil
}

// ParseLine parses one raw table line of the form "<label_with_sign> <mass>"
// with whitespace separation.
func ParseLine(line string) (domain.AdductRule, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return domain.AdductRule{}, fmt.Errorf("%w: expected label and mass, got %q", ErrBadRule, line)
	}
	mass, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return domain.AdductRule{}, fmt.Errorf("%w: bad mass in %q: %v", ErrBadRule, line, err)
	}
	return ParseRule(fields[0], mass)
}

// Table is the immutable set of adduct rules, loaded once at startup.
type Table struct {
	rules   []domain.AdductRule
	byLabel map[string]domain.AdductRule
}

// NewTable builds a table from parsed rules. Later rules with a duplicate
// label replace earlier ones.
func NewTable(rules []domain.AdductRule) *Table {
	t := &Table{
		rules:   make([]domain.AdductRule, 0, len(rules)),
		byLabel: make(map[string]domain.AdductRule, len(rules)),
	}
	for _, r := range rules {
		if _, seen := t.byLabel[r.Label()]; !seen {
			t.rules = append(t.rules, r)
		} else {
			for i := range t.rules {
				if t.rules[i].Label() == r.Label() {
					t.rules[i] = r
					break
				}
			}
		}
		t.byLabel[r.Label()] = r
	}
	return t
}

// Rules returns the rules in table order.
func (t *Table) Rules() []domain.AdductRule {
	return t.rules
}

// Len reports the number of rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// Neutral recovers the neutral mass from a node key such as "188.0707+H".
// Keys without an adduct suffix parse as-is. An unrecognized suffix is an
// error rather than a silent passthrough.
func (t *Table) Neutral(key string) (float64, error) {
	i := strings.IndexAny(key, "+-")
	if i < 0 {
		mass, err := strconv.ParseFloat(key, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad mass in key %q: %v", ErrBadRule, key, err)
		}
		return mass, nil
	}
	mass, err := strconv.ParseFloat(key[:i], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad mass in key %q: %v", ErrBadRule, key, err)
	}
	label := key[i:]
	rule, ok := t.byLabel[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q in key %q", ErrUnknownAdduct, label, key)
	}
	if rule.Sign == domain.AdductAdd {
		return mass - rule.Mass, nil
	}
	return mass + rule.Mass, nil
}
