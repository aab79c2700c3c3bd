// Package badge renders embeddable reputation badges from a computed
// reputation. Star fills come from reputation.StarFill; this package only
// paints them.
package badge

import (
	"fmt"
	"math"

	"landlord_rep/internal/reputation"
)

const (
	starSize = 20 // px, bounding box of one star
	starGap  = 4
	padding  = 8
	height   = starSize + 2*padding
	width    = 260
)

// Input is what the badge shows for one landlord.
type Input struct {
	Name       string
	Reputation reputation.Reputation
}

// Caption is the text next to the stars, e.g. "4.3 · Highly Rated (12)".
func (in Input) Caption() string {
	r := in.Reputation
	if r.RoundedAverage == nil {
		return r.Label
	}
	return fmt.Sprintf("%.1f · %s (%d)", *r.RoundedAverage, r.Label, r.Count)
}

func tierColor(t reputation.Tier) string {
	switch t {
	case reputation.TierGreen:
		return "#2e7d32"
	case reputation.TierYellow:
		return "#f9a825"
	case reputation.TierRed:
		return "#c62828"
	default:
		return "#757575"
	}
}

// starPoints returns the 10 vertices of a five-pointed star inscribed in
// a starSize box whose top-left corner is (x, y).
func starPoints(x, y float64) [10][2]float64 {
	var pts [10][2]float64
	cx, cy := x+starSize/2, y+starSize/2
	outer, inner := float64(starSize)/2, float64(starSize)/5
	for i := 0; i < 10; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		pts[i] = [2]float64{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}
	return pts
}

func starX(i int) float64 { return float64(padding + i*(starSize+starGap)) }

const textX = padding + reputation.StarCount*(starSize+starGap) + 4
