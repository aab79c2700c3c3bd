package reputation_test

import (
	"math"
	"testing"

	"landlord_rep/internal/reputation"
)

func TestStarFill(t *testing.T) {
	cases := []struct {
		score float64
		want  [5]float64
	}{
		{3.4, [5]float64{1, 1, 1, 0.4, 0}},
		{5.0, [5]float64{1, 1, 1, 1, 1}},
		{0.0, [5]float64{0, 0, 0, 0, 0}},
		{4.7, [5]float64{1, 1, 1, 1, 0.7}},
		{1.0, [5]float64{1, 0, 0, 0, 0}},
		{0.3, [5]float64{0.3, 0, 0, 0, 0}},
		{7.2, [5]float64{1, 1, 1, 1, 1}},
		{-2, [5]float64{0, 0, 0, 0, 0}},
		{math.NaN(), [5]float64{0, 0, 0, 0, 0}},
	}
	for _, tc := range cases {
		if got := reputation.StarFill(tc.score); got != tc.want {
			t.Errorf("StarFill(%v) = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestStarFill_SinglePartialStar(t *testing.T) {
	for s := 0.0; s <= 5.0; s += 0.1 {
		fill := reputation.StarFill(s)
		partial := 0
		for i, f := range fill {
			if f < 0 || f > 1 {
				t.Fatalf("StarFill(%v)[%d] = %v out of range", s, i, f)
			}
			if f > 0 && f < 1 {
				partial++
			}
			if i > 0 && f > fill[i-1] {
				t.Fatalf("StarFill(%v) not non-increasing: %v", s, fill)
			}
		}
		if partial > 1 {
			t.Fatalf("StarFill(%v) has %d partial stars: %v", s, partial, fill)
		}
	}
}
