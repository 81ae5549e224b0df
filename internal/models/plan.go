package models

import "time"

// Category is one of the four cost buckets of a plan.
type Category string

const (
	Travel        Category = "Travel"
	Accommodation Category = "Accommodation"
	Experiences   Category = "Experiences"
	Miscellaneous Category = "Miscellaneous"
)

// Categories lists every category in display order.
var Categories = []Category{Travel, Accommodation, Experiences, Miscellaneous}

// Plan is one holiday budget record. Amounts are in the base currency.
// ID is the key of the plan in the user's document and is not stored inside it.
type Plan struct {
	ID                string  `json:"-"`
	Name              string  `json:"name"`
	StartDate         Date    `json:"start_date"`
	EndDate           Date    `json:"end_date"`
	TravelCost        float64 `json:"travel_cost"`
	AccommodationCost float64 `json:"accommodation_cost"`
	ExperiencesCost   float64 `json:"experiences_cost"`
	MiscCost          float64 `json:"misc_cost"`
	TotalCost         float64 `json:"total_cost"`
}

// Days returns the duration of the plan, counting both ends.
func (p Plan) Days() int { return p.StartDate.DaysUntil(p.EndDate) + 1 }

// Cost returns the amount spent on c.
func (p Plan) Cost(c Category) float64 {
	switch c {
	case Travel:
		return p.TravelCost
	case Accommodation:
		return p.AccommodationCost
	case Experiences:
		return p.ExperiencesCost
	case Miscellaneous:
		return p.MiscCost
	}
	return 0
}

// User represents a registered account.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// Session represents a login session of the HTTP API.
type Session struct {
	Token        string    `json:"token"`
	Username     string    `json:"username"`
	ExpiresAt    time.Time `json:"expires_at"`
	LastActivity time.Time `json:"last_activity"`
}
