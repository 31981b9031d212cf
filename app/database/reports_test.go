package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignPositions(t *testing.T) {
	t.Run("distinct means get sequential positions", func(t *testing.T) {
		rows := []*ClassReportRow{
			{StudentName: "A", MeanPercent: 88},
			{StudentName: "B", MeanPercent: 72},
			{StudentName: "C", MeanPercent: 65},
		}
		assignPositions(rows)
		assert.Equal(t, 1, rows[0].Position)
		assert.Equal(t, 2, rows[1].Position)
		assert.Equal(t, 3, rows[2].Position)
	})

	t.Run("ties share a position and the next skips", func(t *testing.T) {
		rows := []*ClassReportRow{
			{StudentName: "A", MeanPercent: 88},
			{StudentName: "B", MeanPercent: 88},
			{StudentName: "C", MeanPercent: 65},
		}
		assignPositions(rows)
		assert.Equal(t, 1, rows[0].Position)
		assert.Equal(t, 1, rows[1].Position)
		assert.Equal(t, 3, rows[2].Position)
	})

	t.Run("empty report is fine", func(t *testing.T) {
		assignPositions(nil)
	})
}
