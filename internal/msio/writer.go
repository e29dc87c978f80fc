package msio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/metabolica/metanet/internal/domain"
)

// Separator is the fixed-width line written after each path. The cluster
// tools recognize any run of five or more dashes as a block boundary.
const Separator = "----------------------------------------"

// WritePaths renders each path as one JSON record per step followed by the
// separator line. This is the established convention consumed by the
// deduplication and annotation tools downstream.
func WritePaths(w io.Writer, paths []domain.ResultPath) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, path := range paths {
		for _, step := range path {
			if err := enc.Encode(step); err != nil {
				return fmt.Errorf("encode step: %w", err)
			}
		}
		if _, err := bw.WriteString(Separator + "\n"); err != nil {
			return fmt.Errorf("write separator: %w", err)
		}
	}
	return bw.Flush()
}

// ReadBlocks parses separator-delimited path blocks back into step records.
// Lines that are not step records (no "source" field) are ignored, matching
// the tolerance of the original tools toward annotation lines.
func ReadBlocks(r io.Reader) ([]domain.ResultPath, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		blocks  []domain.ResultPath
		current domain.ResultPath
	)
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, current)
			current = nil
		}
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isSeparator(line) {
			flush()
			continue
		}
		if !strings.HasPrefix(line, "{") || !strings.Contains(line, `"source"`) {
			continue
		}
		var step domain.PathStep
		if err := json.Unmarshal([]byte(line), &step); err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", lineNo, ErrBadTable, err)
		}
		current = append(current, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read blocks: %w", err)
	}
	flush()
	return blocks, nil
}

func isSeparator(line string) bool {
	if len(line) < 5 {
		return false
	}
	return strings.Count(line, "-") == len(line)
}
