package planner

import "holiday-planner/internal/models"

// Summary holds the derived totals over a set of plans.
type Summary struct {
	Count         int
	Travel        float64
	Accommodation float64
	Experiences   float64
	Miscellaneous float64
	Total         float64
}

// Average returns the mean total cost per plan. It is undefined, and ok is
// false, when there are no plans.
func (s Summary) Average() (avg float64, ok bool) {
	if s.Count == 0 {
		return 0, false
	}
	return s.Total / float64(s.Count), true
}

// ByCategory returns the total of category c.
func (s Summary) ByCategory(c models.Category) float64 {
	switch c {
	case models.Travel:
		return s.Travel
	case models.Accommodation:
		return s.Accommodation
	case models.Experiences:
		return s.Experiences
	case models.Miscellaneous:
		return s.Miscellaneous
	}
	return 0
}

// Aggregate sums plans per category and overall.
func Aggregate(plans []models.Plan) Summary {
	var s Summary
	for _, p := range plans {
		s.Count++
		s.Travel += p.TravelCost
		s.Accommodation += p.AccommodationCost
		s.Experiences += p.ExperiencesCost
		s.Miscellaneous += p.MiscCost
		s.Total += p.TotalCost
	}
	return s
}

// BreakdownRow is one leaf of the plan -> category hierarchy.
type BreakdownRow struct {
	PlanID   string
	PlanName string
	Category models.Category
	Cost     float64
}

// Breakdown returns one row per plan per category with a non-zero cost, in
// the order of plans and models.Categories.
func Breakdown(plans []models.Plan) []BreakdownRow {
	var rows []BreakdownRow
	for _, p := range plans {
		for _, c := range models.Categories {
			cost := p.Cost(c)
			if cost <= 0 {
				continue
			}
			rows = append(rows, BreakdownRow{PlanID: p.ID, PlanName: p.Name, Category: c, Cost: cost})
		}
	}
	return rows
}
