package database

import (
	"testing"

	"hillview-school/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositeScores(t *testing.T) {
	components := []*models.Component{
		{ID: "comp-a", Name: "Composition", MaxMark: 50},
		{ID: "comp-b", Name: "Grammar", MaxMark: 50},
	}

	t.Run("complete set accepted and capped", func(t *testing.T) {
		entered := []*models.ComponentMark{
			{ComponentID: "comp-a", RawMark: 60},
			{ComponentID: "comp-b", RawMark: 30},
		}
		scores, err := compositeScores(components, entered)
		require.NoError(t, err)
		require.Len(t, scores, 2)
		assert.Equal(t, 50.0, scores[0].Raw) // capped to the component max
		assert.Equal(t, 50.0, scores[0].Max)
		assert.Equal(t, 50.0, entered[0].MaxMark)
		assert.Equal(t, 30.0, scores[1].Raw)
	})

	t.Run("partial set rejected", func(t *testing.T) {
		entered := []*models.ComponentMark{
			{ComponentID: "comp-a", RawMark: 40},
		}
		_, err := compositeScores(components, entered)
		assert.Error(t, err)
	})

	t.Run("unknown component rejected", func(t *testing.T) {
		entered := []*models.ComponentMark{
			{ComponentID: "comp-a", RawMark: 40},
			{ComponentID: "comp-x", RawMark: 10},
		}
		_, err := compositeScores(components, entered)
		assert.Error(t, err)
	})

	t.Run("duplicate component rejected", func(t *testing.T) {
		entered := []*models.ComponentMark{
			{ComponentID: "comp-a", RawMark: 40},
			{ComponentID: "comp-a", RawMark: 45},
		}
		_, err := compositeScores(components, entered)
		assert.Error(t, err)
	})
}
