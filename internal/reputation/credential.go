package reputation

import (
	"time"

	"landlord_rep/internal/domain"
)

type Credential string

const (
	CredentialUnrated     Credential = "Unrated"
	CredentialNotYetRated Credential = "NotYetRated"
	CredentialRated       Credential = "Rated"
)

// Policy for the "rated" credential.
const (
	RatedMinReviews       = 10
	RatedMinRecentReviews = 3
	RecentWindow          = 365 * 24 * time.Hour
)

// EvaluateCredential decides whether a landlord has earned the "rated"
// credential from review volume and recency. Reviews with stars outside
// [MinStars, MaxStars] are ignored, as they are by Aggregate.
func EvaluateCredential(reviews []domain.Review, now time.Time) Credential {
	total, recent := 0, 0
	for _, r := range reviews {
		if r.Stars < MinStars || r.Stars > MaxStars {
			continue
		}
		total++
		if !r.CreatedAt.IsZero() && now.Sub(r.CreatedAt) <= RecentWindow {
			recent++
		}
	}
	switch {
	case total == 0:
		return CredentialUnrated
	case total >= RatedMinReviews && recent >= RatedMinRecentReviews:
		return CredentialRated
	default:
		return CredentialNotYetRated
	}
}
