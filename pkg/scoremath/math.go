// Package scoremath provides score normalization helpers shared by the scorer.
package scoremath

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Scale is the upper bound of every normalized score.
const Scale = 100.0

// Saturate maps value onto [0, Scale] linearly against max, clipping at both
// ends. With lowerIsBetter the scale is inverted so 0 scores Scale.
func Saturate(value, max float64, lowerIsBetter bool) float64 {
	if max <= 0 || math.IsNaN(value) {
		return 0
	}
	ratio := Clamp(value / max)
	if lowerIsBetter {
		ratio = 1 - ratio
	}
	return ratio * Scale
}

// WeightedMean averages scores by weight. Mismatched or empty input, or a
// zero weight sum, yields 0.
func WeightedMean(scores, weights []float64) float64 {
	if len(scores) == 0 || len(scores) != len(weights) {
		return 0
	}
	var weightSum float64
	for _, w := range weights {
		weightSum += w
	}
	if weightSum <= 0 {
		return 0
	}
	return stat.Mean(scores, weights)
}

// Clamp ensures a ratio is in valid range [0, 1].
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
