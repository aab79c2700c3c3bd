package reputation

import (
	"math"

	"github.com/shopspring/decimal"
)

const StarCount = 5

// StarFill splits score into per-star fill fractions for badge rendering.
// Stars before floor(score) are full, the star at floor(score) holds the
// fractional part and the rest are empty. Scores are clamped to [0,5].
func StarFill(score float64) [StarCount]float64 {
	var fill [StarCount]float64
	if math.IsNaN(score) || score <= 0 {
		return fill
	}
	if score > StarCount {
		score = StarCount
	}

	d := decimal.NewFromFloat(score)
	whole := d.Floor()
	frac, _ := d.Sub(whole).Float64()
	n := int(whole.IntPart())

	for i := 0; i < StarCount; i++ {
		switch {
		case i < n:
			fill[i] = 1
		case i == n:
			fill[i] = frac
		}
	}
	return fill
}
