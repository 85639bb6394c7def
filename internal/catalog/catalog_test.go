package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	cat := Default()

	water, ok := cat.Section("WATER")
	require.True(t, ok)
	assert.Equal(t, Environment, water.Pillar)
	assert.Equal(t, "section.water", water.Name)

	training, ok := cat.Section("TRAINING")
	require.True(t, ok)
	assert.Equal(t, Social, training.Pillar)

	_, ok = cat.Section("NOPE")
	assert.False(t, ok)

	for _, s := range cat.ByPillar(Governance) {
		assert.Equal(t, Governance, s.Pillar, s.Key)
	}
	assert.Len(t, cat.ByPillar(General), 1)
}

func TestChartsByPillar(t *testing.T) {
	cat := Default()
	assert.Len(t, cat.Charts("environment"), 5)
	assert.Len(t, cat.Charts("social"), 5)
	assert.Len(t, cat.Charts("governance"), 3)

	ch, ok := cat.Chart("governance", "supplier-ratio")
	require.True(t, ok)
	assert.Equal(t, KindPie, ch.Kind)
	assert.Equal(t, []string{"SC_LOCAL", "SC_FOREIGN"}, ch.Questions)
}

func TestLoadRejectsBadInput(t *testing.T) {
	_, err := Load([]byte("sections:\n  - {key: A, name: a, pillar: 1}\n  - {key: A, name: b, pillar: 2}\n"), nil)
	assert.ErrorContains(t, err, "duplicate section key")

	_, err = Load([]byte("sections:\n  - {key: A, name: a, pillar: 7}\n"), nil)
	assert.ErrorContains(t, err, "invalid pillar")

	_, err = Load(nil, []byte("charts:\n  - {pillar: space, key: x, kind: bar}\n"))
	assert.ErrorContains(t, err, "unknown pillar")

	_, err = Load(nil, []byte("charts:\n  - {pillar: social, key: x, kind: radar}\n"))
	assert.ErrorContains(t, err, "unknown kind")
}

func TestParsePillar(t *testing.T) {
	p, ok := ParsePillar("social")
	require.True(t, ok)
	assert.Equal(t, Social, p)
	assert.Equal(t, "pillar.social", p.NameKey())

	_, ok = ParsePillar("finance")
	assert.False(t, ok)
}
