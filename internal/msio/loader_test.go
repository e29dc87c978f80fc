package msio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metabolica/metanet/internal/adduct"
	"github.com/metabolica/metanet/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAdducts(t *testing.T) {
	path := writeFile(t, "adduct_file.txt", "+H\t1.007825\n-H\t1.007825\n\n# charge carriers\n+Na\t22.98922\n")

	rules, err := LoadAdducts(path)
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, "H", rules[0].Ion)
	assert.Equal(t, domain.AdductAdd, rules[0].Sign)
	assert.Equal(t, "Na", rules[2].Ion)
}

func TestLoadAdducts_Malformed(t *testing.T) {
	path := writeFile(t, "adduct_file.txt", "+H\t1.007825\nH without sign\n")

	_, err := LoadAdducts(path)
	assert.ErrorIs(t, err, adduct.ErrBadRule)
	assert.Contains(t, err.Error(), ":2:")
}

func TestLoadMasses(t *testing.T) {
	path := writeFile(t, "central.txt", "175.0634\n203.0947\n\n")

	masses, err := LoadMasses(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{175.0634, 203.0947}, masses)
}

func TestLoadMasses_Malformed(t *testing.T) {
	path := writeFile(t, "central.txt", "175.0634\nnot-a-mass\n")

	_, err := LoadMasses(path)
	assert.ErrorIs(t, err, ErrBadTable)
}

func TestLoadDeltas(t *testing.T) {
	path := writeFile(t, "diff.txt", "ENTRY\tname\tdiff_mass\nR1\tmethylation\t14.01565\nR2\tacetylation\t42.01057\n")

	deltas, err := LoadDeltas(path)
	require.NoError(t, err)
	require.Len(t, deltas, 2)
	assert.Equal(t, domain.ReactionDelta{EntryID: "R1", DiffMass: 14.01565}, deltas[0])
	assert.Equal(t, domain.ReactionDelta{EntryID: "R2", DiffMass: 42.01057}, deltas[1])
}

func TestLoadDeltas_MissingColumns(t *testing.T) {
	path := writeFile(t, "diff.txt", "ENTRY\tname\nR1\tmethylation\n")

	_, err := LoadDeltas(path)
	assert.ErrorIs(t, err, ErrBadTable)
}

func TestLoadDeltas_BadRow(t *testing.T) {
	path := writeFile(t, "diff.txt", "ENTRY\tdiff_mass\nR1\tnot-a-number\n")

	_, err := LoadDeltas(path)
	assert.ErrorIs(t, err, ErrBadTable)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := LoadMasses(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
