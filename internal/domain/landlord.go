package domain

import "time"

type Landlord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Entity    *string   `json:"entity,omitempty"` // legal entity, e.g. "Park Ave Holdings LLC"
	Address   Address   `json:"address"`
	Region    *string   `json:"region,omitempty"` // borough / district label
	Coords    *Coords   `json:"coords,omitempty"`
	Verified  bool      `json:"verified"`
	Top       bool      `json:"top"`
	CreatedAt time.Time `json:"created_at"`
}

type Address struct {
	Street string  `json:"street"`
	Unit   *string `json:"unit,omitempty"`
	City   string  `json:"city"`
	State  string  `json:"state"`
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Report is the public-record summary for a landlord. The metrics are
// displayed as-is; nothing in the reputation engine reads them.
type Report struct {
	LandlordID     string    `json:"landlord_id"`
	UpdatedAt      time.Time `json:"updated_at"`
	Violations     int       `json:"violations"`
	OpenViolations int       `json:"open_violations"`
	Complaints     int       `json:"complaints"`
	Litigations    int       `json:"litigations"`
	Evictions      int       `json:"evictions"`
	Notes          *string   `json:"notes,omitempty"`
}
