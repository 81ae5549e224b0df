package handlers

import (
	"fmt"
	"net/http"

	"holiday-planner/internal/currency"
	"holiday-planner/internal/models"
	"holiday-planner/internal/planner"

	"github.com/shopspring/decimal"
)

// Amount is a converted amount together with its display form.
type Amount struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// PlanView is a plan as shown to the user, in the requested currency.
type PlanView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Days          int    `json:"days"`
	Travel        Amount `json:"travel_cost"`
	Accommodation Amount `json:"accommodation_cost"`
	Experiences   Amount `json:"experiences_cost"`
	Miscellaneous Amount `json:"misc_cost"`
	Total         Amount `json:"total_cost"`
}

// PlansViewModel is the body of the plan list.
type PlansViewModel struct {
	Username string     `json:"username"`
	Currency string     `json:"currency"`
	Plans    []PlanView `json:"plans"`
}

func newAmount(v float64, code string) (Amount, error) {
	converted, err := currency.Convert(v, code)
	if err != nil {
		return Amount{}, err
	}
	display, err := currency.Format(v, code)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Value: converted, Display: display}, nil
}

func newPlanView(p models.Plan, code string) (PlanView, error) {
	v := PlanView{
		ID:        p.ID,
		Name:      p.Name,
		StartDate: p.StartDate.String(),
		EndDate:   p.EndDate.String(),
		Days:      p.Days(),
	}
	fields := []struct {
		dst *Amount
		src float64
	}{
		{&v.Travel, p.TravelCost},
		{&v.Accommodation, p.AccommodationCost},
		{&v.Experiences, p.ExperiencesCost},
		{&v.Miscellaneous, p.MiscCost},
		{&v.Total, p.TotalCost},
	}
	for _, f := range fields {
		a, err := newAmount(f.src, code)
		if err != nil {
			return PlanView{}, err
		}
		*f.dst = a
	}
	return v, nil
}

// requestCurrency returns the display currency asked for in the query string.
func requestCurrency(r *http.Request) (string, error) {
	return currency.Normalize(r.URL.Query().Get("currency"))
}

// ListPlans renders the plans of the current user.
func (h *Handlers) ListPlans(w http.ResponseWriter, r *http.Request) {
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

	views := make([]PlanView, 0, session.Len())
	for _, p := range session.Plans() {
		v, err := newPlanView(p, code)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		views = append(views, v)
	}

	writeJSON(w, http.StatusOK, PlansViewModel{Username: session.Username(), Currency: code, Plans: views})
}

type createPlanRequest struct {
	Name              string          `json:"name"`
	StartDate         string          `json:"start_date"`
	EndDate           string          `json:"end_date"`
	TravelCost        decimal.Decimal `json:"travel_cost"`
	AccommodationCost decimal.Decimal `json:"accommodation_cost"`
	ExperiencesCost   decimal.Decimal `json:"experiences_cost"`
	MiscCost          decimal.Decimal `json:"misc_cost"`
}

func (req createPlanRequest) toNewPlan() (planner.NewPlan, error) {
	var problems []string
	parse := func(field, s string) models.Date {
		if s == "" {
			return models.Date{}
		}
		d, err := models.ParseDate(s)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s must be a YYYY-MM-DD date", field))
		}
		return d
	}

	in := planner.NewPlan{
		Name:              req.Name,
		StartDate:         parse("start_date", req.StartDate),
		EndDate:           parse("end_date", req.EndDate),
		TravelCost:        req.TravelCost.InexactFloat64(),
		AccommodationCost: req.AccommodationCost.InexactFloat64(),
		ExperiencesCost:   req.ExperiencesCost.InexactFloat64(),
		MiscCost:          req.MiscCost.InexactFloat64(),
	}
	if len(problems) > 0 {
		return in, &models.ValidationError{Problems: problems}
	}
	return in, nil
}

// CreatePlan adds a plan for the current user.
func (h *Handlers) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in, err := req.toNewPlan()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	session, err := h.openSession(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := session.Add(in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	p, _ := session.Get(id)
	view, err := newPlanView(p, currency.Base)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.log.Info().Str("username", session.Username()).Str("plan_id", id).Msg("plan added")
	writeJSON(w, http.StatusCreated, view)
}

// DeletePlan removes a plan of the current user. Unknown ids succeed.
func (h *Handlers) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	session, err := h.openSession(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := session.Remove(id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
