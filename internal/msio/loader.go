// Package msio reads the plain-text input tables (adduct rules, central and
// observed mass lists, reaction difference table) and renders result paths
// in the format the downstream cluster tools consume.
package msio

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/metabolica/metanet/internal/adduct"
	"github.com/metabolica/metanet/internal/domain"
)

// ErrBadTable indicates a table row that could not be parsed.
var ErrBadTable = errors.New("msio: malformed table row")

// LoadAdducts reads an adduct file: one "<label_with_sign> <mass>" rule per
// line, whitespace separated. Blank lines and '#' comments are skipped.
func LoadAdducts(path string) ([]domain.AdductRule, error) {
	var rules []domain.AdductRule
	err := eachLine(path, func(lineNo int, line string) error {
		if line == "" || strings.HasPrefix(line, "#") {
			return nil
		}
		rule, err := adduct.ParseLine(line)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		rules = append(rules, rule)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// LoadMasses reads a mass list: one decimal mass per non-empty line.
func LoadMasses(path string) ([]float64, error) {
	var masses []float64
	err := eachLine(path, func(lineNo int, line string) error {
		if line == "" {
			return nil
		}
		m, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return fmt.Errorf("%s:%d: %w: %q is not a mass", path, lineNo, ErrBadTable, line)
		}
		masses = append(masses, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return masses, nil
}

// LoadDeltas reads the reaction difference table: tab-separated with a
// header line naming at least the ENTRY and diff_mass columns.
func LoadDeltas(path string) ([]domain.ReactionDelta, error) {
	entryCol, diffCol := -1, -1
	headerParsed := false
	var deltas []domain.ReactionDelta
	err := eachLine(path, func(lineNo int, line string) error {
		if line == "" {
			return nil
		}
		fields := strings.Split(line, "\t")
		if !headerParsed {
			headerParsed = true
			for i, name := range fields {
				switch strings.TrimSpace(name) {
				case "ENTRY":
					entryCol = i
				case "diff_mass":
					diffCol = i
				}
			}
			if entryCol < 0 || diffCol < 0 {
				return fmt.Errorf("%s: %w: header must name ENTRY and diff_mass columns", path, ErrBadTable)
			}
			return nil
		}
		if len(fields) <= entryCol || len(fields) <= diffCol {
			return fmt.Errorf("%s:%d: %w: expected at least %d columns", path, lineNo, ErrBadTable, max(entryCol, diffCol)+1)
		}
		diff, err := strconv.ParseFloat(strings.TrimSpace(fields[diffCol]), 64)
		if err != nil {
			return fmt.Errorf("%s:%d: %w: bad diff_mass %q", path, lineNo, ErrBadTable, fields[diffCol])
		}
		deltas = append(deltas, domain.ReactionDelta{
			EntryID:  strings.TrimSpace(fields[entryCol]),
			DiffMass: diff,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deltas, nil
}

func eachLine(path string, fn func(lineNo int, line string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := fn(lineNo, strings.TrimSpace(scanner.Text())); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}
