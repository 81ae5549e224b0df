package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"holiday-planner/internal/models"

	"github.com/Pallinder/go-randomdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paris() models.Plan {
	return models.Plan{
		Name:              "Paris",
		StartDate:         models.MustParseDate("2024-06-01"),
		EndDate:           models.MustParseDate("2024-06-05"),
		TravelCost:        500,
		AccommodationCost: 300,
		ExperiencesCost:   100,
		MiscCost:          50,
		TotalCost:         950,
	}
}

func TestPlanFile_LoadMissingFile(t *testing.T) {
	f := NewPlanFile(filepath.Join(t.TempDir(), "plans.json"))

	plans, err := f.Load("alice")
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestPlanFile_RoundTrip(t *testing.T) {
	f := NewPlanFile(filepath.Join(t.TempDir(), "plans.json"))

	p := paris()
	p.ID = "p1"
	require.NoError(t, f.Save("alice", map[string]models.Plan{"p1": p}))

	plans, err := f.Load("alice")
	require.NoError(t, err)
	require.Contains(t, plans, "p1")
	assert.Equal(t, p, plans["p1"])
	assert.Equal(t, "p1", plans["p1"].ID)
}

func TestPlanFile_OnDiskLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.json")
	f := NewPlanFile(path)
	require.NoError(t, f.Save("alice", map[string]models.Plan{"p1": paris()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"alice": {
			"p1": {
				"name": "Paris",
				"start_date": "2024-06-01",
				"end_date": "2024-06-05",
				"travel_cost": 500,
				"accommodation_cost": 300,
				"experiences_cost": 100,
				"misc_cost": 50,
				"total_cost": 950
			}
		}
	}`, string(data))
}

func TestPlanFile_SaveKeepsOtherUsers(t *testing.T) {
	f := NewPlanFile(filepath.Join(t.TempDir(), "plans.json"))

	require.NoError(t, f.Save("alice", map[string]models.Plan{"a1": paris()}))
	require.NoError(t, f.Save("bob", map[string]models.Plan{"b1": paris()}))
	require.NoError(t, f.Save("alice", map[string]models.Plan{}))

	alice, err := f.Load("alice")
	require.NoError(t, err)
	assert.Empty(t, alice)

	bob, err := f.Load("bob")
	require.NoError(t, err)
	assert.Len(t, bob, 1)
}

func TestPlanFile_ReadsIndentedFloatDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.json")
	doc := `{
    "alice": {
        "3f1c": {
            "name": "Rome",
            "start_date": "2024-09-10",
            "end_date": "2024-09-12",
            "travel_cost": 120.0,
            "accommodation_cost": 240.5,
            "experiences_cost": 0.0,
            "misc_cost": 10.0,
            "total_cost": 370.5
        }
    }
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	plans, err := NewPlanFile(path).Load("alice")
	require.NoError(t, err)
	require.Contains(t, plans, "3f1c")
	assert.Equal(t, models.MustParseDate("2024-09-12"), plans["3f1c"].EndDate)
	assert.Equal(t, 240.5, plans["3f1c"].AccommodationCost)
}

func TestPlanFile_CorruptRecords(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad date format", `{"alice": {"p1": {"name": "X", "start_date": "01/06/2024", "end_date": "2024-06-05"}}}`},
		{"timestamp instead of date", `{"alice": {"p1": {"name": "X", "start_date": "2024-06-01T00:00:00", "end_date": "2024-06-05"}}}`},
		{"missing date", `{"alice": {"p1": {"name": "X", "end_date": "2024-06-05"}}}`},
		{"not json", `{"alice": `},
		{"wrong shape", `["alice"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "plans.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.doc), 0o600))

			_, err := NewPlanFile(path).Load("alice")
			assert.ErrorIs(t, err, models.ErrCorruptRecord)
		})
	}
}

func TestPlanFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	plans, err := NewPlanFile(path).Load("alice")
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestPlanFile_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f := NewPlanFile(filepath.Join(dir, "plans.json"))
	require.NoError(t, f.Save("alice", map[string]models.Plan{"p1": paris()}))
	require.NoError(t, f.Save("alice", map[string]models.Plan{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "plans.json", entries[0].Name())
}

func TestPlanFile_SaveFailureKeepsDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"alice": {"p1": {"name": "X", "start_date": "bad", "end_date": "bad"}}}`), 0o600))

	err := NewPlanFile(path).Save("bob", map[string]models.Plan{})
	require.ErrorIs(t, err, models.ErrCorruptRecord)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "bob", "a corrupt document must not be overwritten")
}

func TestPlanFile_SaveRejectsUnencodableAmounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.json")
	p := paris()
	p.TotalCost = math.Inf(1)

	err := NewPlanFile(path).Save("alice", map[string]models.Plan{"p1": p})
	require.ErrorIs(t, err, models.ErrCorruptRecord)
	assert.NoFileExists(t, path)
}

func TestPlanFile_RoundTripRandomPlans(t *testing.T) {
	f := NewPlanFile(filepath.Join(t.TempDir(), "plans.json"))
	base := models.MustParseDate("2024-01-01")

	want := make(map[string]models.Plan)
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("plan-%d", i)
		start := base.AddDays(randomdata.Number(0, 365))
		p := models.Plan{
			ID:                id,
			Name:              randomdata.SillyName(),
			StartDate:         start,
			EndDate:           start.AddDays(randomdata.Number(0, 21)),
			TravelCost:        float64(randomdata.Number(0, 5000)),
			AccommodationCost: float64(randomdata.Number(0, 5000)),
			ExperiencesCost:   float64(randomdata.Number(0, 5000)),
			MiscCost:          float64(randomdata.Number(0, 5000)) / 4,
		}
		p.TotalCost = p.TravelCost + p.AccommodationCost + p.ExperiencesCost + p.MiscCost
		want[id] = p
	}

	username := randomdata.SillyName()
	require.NoError(t, f.Save(username, want))

	got, err := f.Load(username)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
