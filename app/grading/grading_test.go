package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandFor(t *testing.T) {
	cases := []struct {
		percentage float64
		want       string
	}{
		{100, BandEE1},
		{90, BandEE1},
		{89.999, BandEE2},
		{75, BandEE2},
		{74.99, BandME1},
		{70, BandME1},
		{58, BandME1},
		{57.5, BandME2},
		{41, BandME2},
		{40.9, BandAE1},
		{31, BandAE1},
		{30, BandAE2},
		{21, BandAE2},
		{20, BandBE1},
		{11, BandBE1},
		{10.99, BandBE2},
		{0, BandBE2},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, BandFor(tc.percentage), "percentage %v", tc.percentage)
	}
}

func TestAggregateCompositeExample(t *testing.T) {
	// Composition 40/50 + Grammar 30/50 => 70/100 = 70% => ME1
	s := Aggregate([]ComponentScore{
		{Raw: 40, Max: 50},
		{Raw: 30, Max: 50},
	})

	assert.Equal(t, 70.0, s.TotalRaw)
	assert.Equal(t, 100.0, s.TotalMax)
	assert.Equal(t, 70.0, s.Percentage)
	assert.Equal(t, BandME1, s.Band)
}

func TestAggregateZeroTotalMax(t *testing.T) {
	s := Aggregate([]ComponentScore{{Raw: 10, Max: 0}})
	assert.Equal(t, 0.0, s.Percentage)
	assert.Equal(t, BandBE2, s.Band)

	s = Aggregate(nil)
	assert.Equal(t, 0.0, s.Percentage)
	assert.Equal(t, BandBE2, s.Band)
}

func TestAggregateCapsRawAboveMax(t *testing.T) {
	// Max lowered to 30 after a 45 was entered: raw is capped, not scaled
	s := Aggregate([]ComponentScore{
		{Raw: 45, Max: 30},
		{Raw: 20, Max: 70},
	})

	assert.Equal(t, 50.0, s.TotalRaw)
	assert.Equal(t, 100.0, s.TotalMax)
	assert.Equal(t, 50.0, s.Percentage)
	assert.Equal(t, BandME2, s.Band)
}

func TestAggregatePercentageRange(t *testing.T) {
	cases := [][]ComponentScore{
		{{Raw: 0, Max: 50}},
		{{Raw: 50, Max: 50}},
		{{Raw: 120, Max: 50}},
		{{Raw: -5, Max: 50}},
		{{Raw: 33, Max: 60}, {Raw: 12, Max: 40}},
		{{Raw: 1, Max: 3}, {Raw: 2, Max: 7}, {Raw: 0.5, Max: 1}},
	}

	for _, components := range cases {
		s := Aggregate(components)
		assert.GreaterOrEqual(t, s.Percentage, 0.0)
		assert.LessOrEqual(t, s.Percentage, 100.0)
	}
}

func TestCapToMax(t *testing.T) {
	assert.Equal(t, 30.0, CapToMax(45, 30))
	assert.Equal(t, 25.0, CapToMax(25, 30))
	assert.Equal(t, 0.0, CapToMax(-3, 30))
	assert.Equal(t, 10.0, CapToMax(10, 0)) // no max to cap against
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 80.0, Percentage(40, 50))
	assert.Equal(t, 0.0, Percentage(40, 0))
	assert.Equal(t, 100.0, Percentage(60, 50)) // capped
	assert.Equal(t, 66.67, Percentage(2, 3))
}

func TestSingle(t *testing.T) {
	s := Single(89.999, 100)
	assert.Equal(t, 90.0, s.Percentage) // display figure rounds up
	assert.Equal(t, BandEE2, s.Band)    // band must not

	s = Single(90, 100)
	assert.Equal(t, BandEE1, s.Band)
}

func TestAggregateBandNotInflatedByRounding(t *testing.T) {
	// 26.999/30 = 89.996..% displays as 90.00 but stays EE2
	s := Aggregate([]ComponentScore{{Raw: 26.999, Max: 30}})
	assert.Equal(t, 90.0, s.Percentage)
	assert.Equal(t, BandEE2, s.Band)

	// 17.399/30 = 57.996..% displays as 58.00 but stays ME2
	s = Aggregate([]ComponentScore{{Raw: 17.399, Max: 30}})
	assert.Equal(t, 58.0, s.Percentage)
	assert.Equal(t, BandME2, s.Band)
}

func TestBandDescription(t *testing.T) {
	assert.Equal(t, "Exceeding Expectation", BandDescription(BandEE1))
	assert.Equal(t, "Meeting Expectation", BandDescription(BandME2))
	assert.Equal(t, "Approaching Expectation", BandDescription(BandAE1))
	assert.Equal(t, "Below Expectation", BandDescription(BandBE2))
	assert.Equal(t, "Unknown", BandDescription("X"))
}
