package strategy

import (
	"testing"

	"plan-picker/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	s, err := Lookup("effective")
	require.NoError(t, err)
	assert.Equal(t, "effective", s.Name())

	_, err = Lookup("oracle")
	assert.Error(t, err)
}

func TestScores(t *testing.T) {
	p := model.ValuedPlan{AvgRate: 0.12, EffectiveRate: 0.115}
	assert.Equal(t, 0.115, Effective{}.Score(p))
	assert.Equal(t, 0.12, Nominal{}.Score(p))
}

func TestAllSortedByName(t *testing.T) {
	all := All()
	require.Len(t, all, 2)
	assert.Equal(t, "effective", all[0].Name())
	assert.Equal(t, "nominal", all[1].Name())
	for _, s := range all {
		assert.NotEmpty(t, s.Description())
	}
}
