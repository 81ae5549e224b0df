package storage

import (
	"fmt"
	"sync"

	"holiday-planner/internal/models"
)

// planDocument is the on-disk layout: username -> plan id -> plan.
type planDocument map[string]map[string]models.Plan

// PlanFile persists every user's plans in a single JSON document.
type PlanFile struct {
	path string
	mu   sync.Mutex
}

// NewPlanFile returns a PlanFile backed by the document at path.
func NewPlanFile(path string) *PlanFile {
	return &PlanFile{path: path}
}

// Path returns the document location.
func (f *PlanFile) Path() string { return f.path }

func (f *PlanFile) read() (planDocument, error) {
	doc := make(planDocument)
	if err := readJSON(f.path, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Load returns the plans of username keyed by plan id. A missing document or
// an unknown user yields an empty map.
func (f *PlanFile) Load(username string) (map[string]models.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return nil, err
	}

	plans := make(map[string]models.Plan, len(doc[username]))
	for id, p := range doc[username] {
		if p.StartDate.IsZero() || p.EndDate.IsZero() {
			return nil, fmt.Errorf("plan %s of %s: missing dates: %w", id, username, models.ErrCorruptRecord)
		}
		p.ID = id
		plans[id] = p
	}
	return plans, nil
}

// Save replaces the plans of username with plans, leaving other users'
// entries as they are on disk.
func (f *PlanFile) Save(username string, plans map[string]models.Plan) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}

	entry := make(map[string]models.Plan, len(plans))
	for id, p := range plans {
		entry[id] = p
	}
	doc[username] = entry

	return writeJSON(f.path, doc)
}
