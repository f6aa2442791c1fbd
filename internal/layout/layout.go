// Package layout converts a sentiment record into stacked bar geometry.
//
// Compute is pure and deterministic, so callers may memoize it on
// (record, neutralVisible).
package layout

import (
	"math"

	"github.com/roshda/galaxy-o-meter/internal/domain"
)

// Compute lays out the positive, neutral and negative segments of one bar.
//
// Averages are treated as relative weights. When neutral is hidden its weight is
// removed from the denominator, so positive and negative still span the whole bar.
// A zero (or non-finite) total yields zero-width segments instead of dividing by zero.
// Negative only gets a rounded right edge when neutral is hidden; with neutral shown
// the bar container clips the right end.
func Compute(record domain.SentimentRecord, neutralVisible bool) domain.BarLayout {
	positive := magnitude(record.Average(domain.CategoryPositive))
	neutral := magnitude(record.Average(domain.CategoryNeutral))
	negative := magnitude(record.Average(domain.CategoryNegative))

	total := positive + negative
	if neutralVisible {
		total += neutral
	}

	fraction := func(m float64) float64 {
		if total <= 0 || math.IsInf(total, 0) {
			return 0
		}
		return m / total
	}

	var bar domain.BarLayout
	offset := 0.0

	bar.Positive = domain.Segment{
		Category:           domain.CategoryPositive,
		WidthFraction:      fraction(positive),
		LeftOffsetFraction: offset,
		RoundedLeft:        true,
	}
	offset += bar.Positive.WidthFraction

	if neutralVisible {
		bar.Neutral = &domain.Segment{
			Category:           domain.CategoryNeutral,
			WidthFraction:      fraction(neutral),
			LeftOffsetFraction: offset,
		}
		offset += bar.Neutral.WidthFraction
	}

	bar.Negative = domain.Segment{
		Category:           domain.CategoryNegative,
		WidthFraction:      fraction(negative),
		LeftOffsetFraction: clamp(offset),
		RoundedRight:       !neutralVisible,
	}

	return bar
}

// magnitude treats negative and NaN weights as zero.
func magnitude(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
