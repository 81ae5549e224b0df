package handlers

import (
	"net/http"

	"holiday-planner/internal/models"
	"holiday-planner/internal/planner"
)

// SummaryCategoryItem represents a category with its share of the budget.
type SummaryCategoryItem struct {
	Category   models.Category `json:"category"`
	Amount     Amount          `json:"amount"`
	Percentage float64         `json:"percentage"`
}

// BreakdownItem is one plan/category leaf of the budget hierarchy.
type BreakdownItem struct {
	PlanID   string          `json:"plan_id"`
	Plan     string          `json:"plan"`
	Category models.Category `json:"category"`
	Cost     Amount          `json:"cost"`
}

// SummaryViewModel is the body of the summary endpoint.
type SummaryViewModel struct {
	Currency   string                `json:"currency"`
	Count      int                   `json:"count"`
	Total      Amount                `json:"total"`
	Average    *Amount               `json:"average,omitempty"`
	Categories []SummaryCategoryItem `json:"categories"`
	Breakdown  []BreakdownItem       `json:"breakdown"`
}

// Summary renders the aggregate statistics of the current user's plans.
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	code, err := requestCurrency(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	session, err := h.openSession(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	vm, err := newSummaryViewModel(session.Summary(), session.Breakdown(), code)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vm)
}

func newSummaryViewModel(s planner.Summary, rows []planner.BreakdownRow, code string) (SummaryViewModel, error) {
	total, err := newAmount(s.Total, code)
	if err != nil {
		return SummaryViewModel{}, err
	}
	vm := SummaryViewModel{
		Currency:   code,
		Count:      s.Count,
		Total:      total,
		Categories: make([]SummaryCategoryItem, 0, len(models.Categories)),
		Breakdown:  make([]BreakdownItem, 0, len(rows)),
	}

	if avg, ok := s.Average(); ok {
		a, err := newAmount(avg, code)
		if err != nil {
			return SummaryViewModel{}, err
		}
		vm.Average = &a
	}

	for _, c := range models.Categories {
		v := s.ByCategory(c)
		a, err := newAmount(v, code)
		if err != nil {
			return SummaryViewModel{}, err
		}
		percentage := 0.0
		if s.Total > 0 {
			percentage = (v / s.Total) * 100
		}
		vm.Categories = append(vm.Categories, SummaryCategoryItem{Category: c, Amount: a, Percentage: percentage})
	}

	for _, row := range rows {
		a, err := newAmount(row.Cost, code)
		if err != nil {
			return SummaryViewModel{}, err
		}
		vm.Breakdown = append(vm.Breakdown, BreakdownItem{
			PlanID:   row.PlanID,
			Plan:     row.PlanName,
			Category: row.Category,
			Cost:     a,
		})
	}
	return vm, nil
}
