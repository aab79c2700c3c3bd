package domain

import "time"

type Review struct {
	ID         string    `json:"id"`
	LandlordID string    `json:"landlord_id"`
	Stars      int       `json:"stars"` // 1..5
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}
