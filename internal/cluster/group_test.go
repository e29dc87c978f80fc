package cluster

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetabolite(t *testing.T) {
	m, err := ParseMetabolite("4.27_188.0707m/z")
	require.NoError(t, err)
	assert.Equal(t, "4.27", m.RT)
	assert.Equal(t, 188.0707, m.Mass)
	assert.Equal(t, "4.27_188.0707m/z", m.ID)
}

func TestParseMetabolite_Malformed(t *testing.T) {
	_, err := ParseMetabolite("no-separator")
	assert.ErrorIs(t, err, ErrBadMetabolite)

	_, err = ParseMetabolite("4.27_nomass")
	assert.ErrorIs(t, err, ErrBadMetabolite)
}

func TestGroupByMass(t *testing.T) {
	metabolites := []Metabolite{
		{ID: "a", Mass: 100.0000},
		{ID: "b", Mass: 100.0005}, // 5 ppm from a, same group
		{ID: "c", Mass: 100.0050}, // 50 ppm from a, new group
		{ID: "d", Mass: 200.0000},
	}

	groups := GroupByMass(metabolites, 10)
	require.Len(t, groups, 3)
	assert.Equal(t, 100.0, groups[0].Anchor)
	assert.Equal(t, []string{"a", "b"}, groups[0].Members)
	assert.Equal(t, []string{"c"}, groups[1].Members)
	assert.Equal(t, []string{"d"}, groups[2].Members)
}

func TestGroupByMass_SortsInput(t *testing.T) {
	metabolites := []Metabolite{
		{ID: "d", Mass: 200.0},
		{ID: "a", Mass: 100.0},
	}
	groups := GroupByMass(metabolites, 10)
	require.Len(t, groups, 2)
	assert.Equal(t, 100.0, groups[0].Anchor)
}

func TestGroupByMass_AnchorStaysFixed(t *testing.T) {
	// Successive 8 ppm steps drift away from the anchor; only the first
	// stays inside the threshold because distance is measured to the
	// anchor, not the previous member.
	metabolites := []Metabolite{
		{ID: "a", Mass: 100.0},
		{ID: "b", Mass: 100.0008},
		{ID: "c", Mass: 100.0016},
	}
	groups := GroupByMass(metabolites, 10)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"a", "b"}, groups[0].Members)
	assert.Equal(t, []string{"c"}, groups[1].Members)
}

func TestReadMetabolites(t *testing.T) {
	input := "4.27_188.0707m/z\n\n5.10_203.0947m/z\n"
	ms, err := ReadMetabolites(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, 203.0947, ms[1].Mass)
}

func TestWriteGroups(t *testing.T) {
	var buf bytes.Buffer
	err := WriteGroups(&buf, []Group{
		{Anchor: 100.0, Members: []string{"a", "b"}},
		{Anchor: 200.5, Members: []string{"c"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "100\ta,b\n200.5\tc\n", buf.String())
}
