// Package grading holds the composite mark aggregation and performance band
// classification. The same arithmetic runs client-side in static/js/marks.js
// for live feedback; this package is the authority at save time.
package grading

import "math"

// ComponentScore is one component's raw mark against its configured maximum
type ComponentScore struct {
	Raw float64
	Max float64
}

// Summary is the aggregated outcome for a subject mark
type Summary struct {
	TotalRaw   float64
	TotalMax   float64
	Percentage float64
	Band       string
}

// Performance bands (Kenyan CBC), best to worst
const (
	BandEE1 = "EE1"
	BandEE2 = "EE2"
	BandME1 = "ME1"
	BandME2 = "ME2"
	BandAE1 = "AE1"
	BandAE2 = "AE2"
	BandBE1 = "BE1"
	BandBE2 = "BE2"
)

// Bands lists all band names from best to worst
func Bands() []string {
	return []string{BandEE1, BandEE2, BandME1, BandME2, BandAE1, BandAE2, BandBE1, BandBE2}
}

// BandFor maps an overall percentage to its performance band.
// Thresholds: >=90 EE1, >=75 EE2, >=58 ME1, >=41 ME2, >=31 AE1, >=21 AE2,
// >=11 BE1, below that BE2. Boundaries are inclusive on the lower edge, so
// 90 is EE1 and 89.999 is EE2.
func BandFor(percentage float64) string {
	switch {
	case percentage >= 90:
		return BandEE1
	case percentage >= 75:
		return BandEE2
	case percentage >= 58:
		return BandME1
	case percentage >= 41:
		return BandME2
	case percentage >= 31:
		return BandAE1
	case percentage >= 21:
		return BandAE2
	case percentage >= 11:
		return BandBE1
	default:
		return BandBE2
	}
}

// BandDescription returns the long form of a band name
func BandDescription(band string) string {
	switch band {
	case BandEE1, BandEE2:
		return "Exceeding Expectation"
	case BandME1, BandME2:
		return "Meeting Expectation"
	case BandAE1, BandAE2:
		return "Approaching Expectation"
	case BandBE1, BandBE2:
		return "Below Expectation"
	default:
		return "Unknown"
	}
}

// CapToMax clamps a raw mark into [0, max]. A component max lowered after
// marks exist caps those marks rather than letting them exceed the new max.
func CapToMax(raw, max float64) float64 {
	if raw < 0 {
		return 0
	}
	if max > 0 && raw > max {
		return max
	}
	return raw
}

// Percentage computes raw/max as a percentage. A zero or negative max yields
// 0 rather than dividing by zero.
func Percentage(raw, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return round2(CapToMax(raw, max) / max * 100)
}

// Aggregate sums component scores into an overall raw mark, maximum and
// percentage, and classifies the band. Each raw is capped to its component
// max first, so the percentage always lands in [0, 100]. The reported
// percentage is rounded to 2dp but the band is classified from the unrounded
// value. An empty component list or a zero total max yields a zero summary
// banded BE2.
func Aggregate(components []ComponentScore) Summary {
	var totalRaw, totalMax float64
	for _, cs := range components {
		if cs.Max <= 0 {
			continue
		}
		totalRaw += CapToMax(cs.Raw, cs.Max)
		totalMax += cs.Max
	}

	s := Summary{TotalRaw: round2(totalRaw), TotalMax: totalMax}
	var exact float64
	if totalMax > 0 {
		exact = totalRaw / totalMax * 100
		s.Percentage = round2(exact)
	}
	// Band from the exact value: rounding first would carry 89.999 up to 90
	// and across the EE1 boundary
	s.Band = BandFor(exact)
	return s
}

// Single aggregates a non-composite subject mark
func Single(raw, max float64) Summary {
	return Aggregate([]ComponentScore{{Raw: raw, Max: max}})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
