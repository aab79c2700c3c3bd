package reputation

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"landlord_rep/internal/domain"
)

const (
	// HalfLifeDays is how long it takes a review's influence to halve.
	HalfLifeDays = 180.0

	MinStars = 1
	MaxStars = 5
)

// Summary is the aggregate of one landlord's review set at a point in time.
// WeightedAverage and RoundedAverage are nil when there is nothing to
// average; a nil score is never reported as 0.
type Summary struct {
	Count           int      `json:"count"`
	WeightedAverage *float64 `json:"weighted_average"`
	RoundedAverage  *float64 `json:"rounded_average"`
	Distribution    [5]int   `json:"distribution"` // index i holds reviews with i+1 stars
	Excluded        int      `json:"excluded,omitempty"`
}

// Aggregate computes the recency-weighted score of reviews as of now.
//
// Reviews whose star value falls outside [1,5] are skipped entirely and
// reported in Excluded. Reviews without a timestamp still count and
// appear in the distribution but carry no weight.
func Aggregate(reviews []domain.Review, now time.Time) Summary {
	var (
		s               Summary
		sumW, sumStarsW float64
	)
	for _, r := range reviews {
		if r.Stars < MinStars || r.Stars > MaxStars {
			s.Excluded++
			continue
		}
		s.Count++
		s.Distribution[r.Stars-1]++

		w := Weight(r.CreatedAt, now)
		sumW += w
		sumStarsW += float64(r.Stars) * w
	}
	if s.Count == 0 || sumW == 0 {
		return s
	}

	avg := sumStarsW / sumW
	rounded := RoundTenths(avg)
	s.WeightedAverage = &avg
	s.RoundedAverage = &rounded
	return s
}

// Weight is 0.5^(age/HalfLifeDays). Future timestamps count as age zero;
// a zero timestamp weighs nothing.
func Weight(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 0
	}
	age := ageDays(createdAt, now)
	return math.Pow(0.5, age/HalfLifeDays)
}

func ageDays(createdAt, now time.Time) float64 {
	d := now.Sub(createdAt).Hours() / 24
	if d < 0 {
		return 0
	}
	return d
}

// RoundTenths rounds half-up at the tenths digit on the decimal
// representation of v, so 2.95 becomes 3.0 rather than 2.9.
func RoundTenths(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}
