package adduct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metabolica/metanet/internal/domain"
)

func TestParseRule(t *testing.T) {
	rule, err := ParseRule("+H", 1.007825)
	require.NoError(t, err)
	assert.Equal(t, "H", rule.Ion)
	assert.Equal(t, domain.AdductAdd, rule.Sign)
	assert.Equal(t, 1.007825, rule.Mass)
	assert.Equal(t, "+H", rule.Label())

	rule, err = ParseRule("-H2O", 18.010565)
	require.NoError(t, err)
	assert.Equal(t, "H2O", rule.Ion)
	assert.Equal(t, domain.AdductRemove, rule.Sign)
}

func TestParseRule_Malformed(t *testing.T) {
	for _, label := range []string{"", "H", "+", "Na+"} {
		_, err := ParseRule(label, 1.0)
		assert.ErrorIs(t, err, ErrBadRule, "label %q", label)
	}
}

func TestParseLine(t *testing.T) {
	rule, err := ParseLine("+Na\t22.98922")
	require.NoError(t, err)
	assert.Equal(t, "Na", rule.Ion)
	assert.Equal(t, 22.98922, rule.Mass)

	_, err = ParseLine("+Na")
	assert.ErrorIs(t, err, ErrBadRule)

	_, err = ParseLine("+Na notamass")
	assert.ErrorIs(t, err, ErrBadRule)
}

func TestRuleApply(t *testing.T) {
	plus, err := ParseRule("+H", 1.007825)
	require.NoError(t, err)
	key, adjusted := plus.Apply(188.0707)
	assert.Equal(t, "188.0707+H", key)
	assert.InDelta(t, 187.062875, adjusted, 1e-9)

	minus, err := ParseRule("-H", 1.007825)
	require.NoError(t, err)
	key, adjusted = minus.Apply(188.0707)
	assert.Equal(t, "188.0707-H", key)
	assert.InDelta(t, 189.078525, adjusted, 1e-9)
}

func TestTableNeutral(t *testing.T) {
	plus, _ := ParseRule("+H", 1.007825)
	minus, _ := ParseRule("-H", 1.007825)
	table := NewTable([]domain.AdductRule{plus, minus})

	m, err := table.Neutral("188.0707+H")
	require.NoError(t, err)
	assert.InDelta(t, 187.062875, m, 1e-9)

	m, err = table.Neutral("188.0707-H")
	require.NoError(t, err)
	assert.InDelta(t, 189.078525, m, 1e-9)

	// Bare central keys pass through untouched.
	m, err = table.Neutral("175.0634")
	require.NoError(t, err)
	assert.Equal(t, 175.0634, m)
}

func TestTableNeutral_Errors(t *testing.T) {
	plus, _ := ParseRule("+H", 1.007825)
	table := NewTable([]domain.AdductRule{plus})

	_, err := table.Neutral("188.0707+Na")
	assert.ErrorIs(t, err, ErrUnknownAdduct)

	_, err = table.Neutral("notamass")
	assert.ErrorIs(t, err, ErrBadRule)
}

func TestTable_DuplicateLabelReplaces(t *testing.T) {
	first, _ := ParseRule("+H", 1.0)
	second, _ := ParseRule("+H", 1.007825)
	table := NewTable([]domain.AdductRule{first, second})

	require.Equal(t, 1, table.Len())
	assert.Equal(t, 1.007825, table.Rules()[0].Mass)
}
