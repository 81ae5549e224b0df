// Package planner owns a user's holiday plans: it validates new plans,
// keeps them in memory for the duration of a session, persists every change
// and computes the aggregates shown to the user.
package planner

import (
	"fmt"
	"maps"
	"sort"

	"holiday-planner/internal/models"

	"github.com/google/uuid"
)

// Store persists the plans of each user.
type Store interface {
	// Load returns the plans of username keyed by id, or an empty map.
	Load(username string) (map[string]models.Plan, error)
	// Save replaces the plans of username.
	Save(username string, plans map[string]models.Plan) error
}

// Session is the in-memory view of one authenticated user's plans.
// A Session is not safe for concurrent use; create one per request.
type Session struct {
	username string
	store    Store
	plans    map[string]models.Plan
	newID    func() string
}

// Open loads the plans of username from store.
func Open(store Store, username string) (*Session, error) {
	plans, err := store.Load(username)
	if err != nil {
		return nil, fmt.Errorf("loading plans of %s: %w", username, err)
	}
	if plans == nil {
		plans = make(map[string]models.Plan)
	}
	return &Session{
		username: username,
		store:    store,
		plans:    plans,
		newID:    uuid.NewString,
	}, nil
}

// Username returns the owner of the session.
func (s *Session) Username() string { return s.username }

// Len returns the number of plans.
func (s *Session) Len() int { return len(s.plans) }

// Get returns the plan with the given id.
func (s *Session) Get(id string) (models.Plan, bool) {
	p, ok := s.plans[id]
	return p, ok
}

// Plans returns every plan ordered by start date, then name, then id.
func (s *Session) Plans() []models.Plan {
	out := make([]models.Plan, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, p)
	}
	sortPlans(out)
	return out
}

// Add validates in, stores it as a new plan and persists the user's plans.
// It returns the id of the new plan. Nothing changes when validation or
// persistence fails.
func (s *Session) Add(in NewPlan) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}

	id := s.newID()
	p := models.Plan{
		ID:                id,
		Name:              in.Name,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		TravelCost:        in.TravelCost,
		AccommodationCost: in.AccommodationCost,
		ExperiencesCost:   in.ExperiencesCost,
		MiscCost:          in.MiscCost,
		TotalCost:         in.total(),
	}

	next := maps.Clone(s.plans)
	next[id] = p
	if err := s.persist(next); err != nil {
		return "", err
	}
	return id, nil
}

// Remove deletes the plan with the given id and persists the user's plans.
// Removing an unknown id is a no-op.
func (s *Session) Remove(id string) error {
	if _, ok := s.plans[id]; !ok {
		return nil
	}

	next := maps.Clone(s.plans)
	delete(next, id)
	return s.persist(next)
}

func (s *Session) persist(next map[string]models.Plan) error {
	if err := s.store.Save(s.username, next); err != nil {
		return fmt.Errorf("saving plans of %s: %w", s.username, err)
	}
	s.plans = next
	return nil
}

// Summary aggregates the session's plans.
func (s *Session) Summary() Summary { return Aggregate(s.Plans()) }

// Breakdown returns the session's per-plan, per-category cost rows.
func (s *Session) Breakdown() []BreakdownRow { return Breakdown(s.Plans()) }

func sortPlans(plans []models.Plan) {
	sort.Slice(plans, func(i, j int) bool {
		a, b := plans[i], plans[j]
		if a.StartDate != b.StartDate {
			return a.StartDate.Before(b.StartDate)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}
