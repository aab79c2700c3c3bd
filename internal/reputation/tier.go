package reputation

type Tier string

const (
	TierNone   Tier = "none"
	TierRed    Tier = "red"
	TierYellow Tier = "yellow"
	TierGreen  Tier = "green"
)

type Classification struct {
	Tier  Tier   `json:"tier"`
	Label string `json:"label"`
}

var (
	unrated      = Classification{Tier: TierNone, Label: "Unrated"}
	lowRating    = Classification{Tier: TierRed, Label: "Low Rating"}
	mixedReviews = Classification{Tier: TierYellow, Label: "Mixed Reviews"}
	highlyRated  = Classification{Tier: TierGreen, Label: "Highly Rated"}
)

// Tier cut-offs. Red tops out at 2.99 and green starts at exactly 4.0,
// so yellow is the open band (2.99, 4.0); a rounded 3.0 is yellow.
const (
	redFloor     = 1.0
	redCeiling   = 2.99
	greenFloor   = 4.0
	greenCeiling = 5.0
)

// Classify maps a rounded score and review count to a tier. It expects
// the one-decimal score produced by Aggregate.
func Classify(rounded *float64, count int) Classification {
	if count == 0 || rounded == nil {
		return unrated
	}
	switch r := *rounded; {
	case r >= redFloor && r <= redCeiling:
		return lowRating
	case r > redCeiling && r < greenFloor:
		return mixedReviews
	case r >= greenFloor && r <= greenCeiling:
		return highlyRated
	default:
		return unrated
	}
}
