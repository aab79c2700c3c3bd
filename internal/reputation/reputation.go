package reputation

import (
	"time"

	"landlord_rep/internal/domain"
)

// Reputation is everything a renderer needs about one landlord.
type Reputation struct {
	Summary
	Classification
	Credential Credential         `json:"credential"`
	Stars      [StarCount]float64 `json:"stars"`
}

// Evaluate recomputes a landlord's reputation from its reviews as of now.
func Evaluate(reviews []domain.Review, now time.Time) Reputation {
	s := Aggregate(reviews, now)
	rep := Reputation{
		Summary:        s,
		Classification: Classify(s.RoundedAverage, s.Count),
		Credential:     EvaluateCredential(reviews, now),
	}
	if s.RoundedAverage != nil {
		rep.Stars = StarFill(*s.RoundedAverage)
	}
	return rep
}
