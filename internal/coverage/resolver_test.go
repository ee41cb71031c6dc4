package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveAvailableSelected(t *testing.T) {
	res := ResolveShiftOverrides(ResolveInput{
		Available: []string{"2026-02-10|EM"},
		Selected:  []string{"2026-02-10|EM"},
		ShiftIDs:  map[string]string{"2026-02-10|EM": "shift-A"},
	})

	assert.Equal(t, []string{"shift-A"}, res.SelectedShiftIDs)
	assert.Equal(t, []ShiftOverrideRecord{{ShiftID: "shift-A", Selected: true, OverrideAvailability: false}}, res.Overrides)
}

func TestResolveUnavailableWithoutOverrideIsNotSelected(t *testing.T) {
	res := ResolveShiftOverrides(ResolveInput{
		Unavailable: []string{"2026-02-10|EM"},
		Selected:    []string{"2026-02-10|EM"},
		ShiftIDs:    map[string]string{"2026-02-10|EM": "shift-A"},
	})

	assert.Empty(t, res.SelectedShiftIDs)
	assert.Equal(t, []ShiftOverrideRecord{{ShiftID: "shift-A", Selected: false, OverrideAvailability: false}}, res.Overrides)
}

func TestResolveUnavailableWithOverride(t *testing.T) {
	res := ResolveShiftOverrides(ResolveInput{
		Unavailable: []string{"2026-02-11|AM"},
		Override:    []string{"2026-02-11|AM"},
		Selected:    []string{"2026-02-11|AM"},
		ShiftIDs:    map[string]string{"2026-02-11|AM": "shift-B"},
	})

	assert.Equal(t, []string{"shift-B"}, res.SelectedShiftIDs)
	assert.Equal(t, []ShiftOverrideRecord{{ShiftID: "shift-B", Selected: true, OverrideAvailability: true}}, res.Overrides)
}

func TestResolveOverrideWithoutSelectionKeepsFlag(t *testing.T) {
	res := ResolveShiftOverrides(ResolveInput{
		Unavailable: []string{"2026-02-11|AM"},
		Override:    []string{"2026-02-11|AM"},
		ShiftIDs:    map[string]string{"2026-02-11|AM": "shift-B"},
	})

	assert.Empty(t, res.SelectedShiftIDs)
	assert.Equal(t, []ShiftOverrideRecord{{ShiftID: "shift-B", Selected: false, OverrideAvailability: true}}, res.Overrides)
}

func TestResolveDropsUnknownKeys(t *testing.T) {
	res := ResolveShiftOverrides(ResolveInput{
		Available:   []string{"2026-02-10|EM", "2026-02-12|PM"},
		Unavailable: []string{"2026-03-01|AM"},
		Selected:    []string{"2026-02-10|EM", "2026-02-12|PM"},
		Override:    []string{"2026-03-01|AM"},
		ShiftIDs:    map[string]string{"2026-02-10|EM": "shift-A"},
	})

	assert.Equal(t, []string{"shift-A"}, res.SelectedShiftIDs)
	assert.Len(t, res.Overrides, 1)
}

func TestResolveKeyInBothSetsResolvesAsAvailable(t *testing.T) {
	res := ResolveShiftOverrides(ResolveInput{
		Available:   []string{"2026-02-10|EM"},
		Unavailable: []string{"2026-02-10|EM"},
		Selected:    []string{"2026-02-10|EM"},
		ShiftIDs:    map[string]string{"2026-02-10|EM": "shift-A"},
	})

	assert.Equal(t, []string{"shift-A"}, res.SelectedShiftIDs)
	assert.Equal(t, []ShiftOverrideRecord{{ShiftID: "shift-A", Selected: true}}, res.Overrides)
}

func TestResolveOrderIsDeterministic(t *testing.T) {
	in := ResolveInput{
		Available:   []string{"2026-02-12|PM", "2026-02-10|AM"},
		Unavailable: []string{"2026-02-11|AM"},
		Selected:    []string{"2026-02-10|AM", "2026-02-12|PM", "2026-02-11|AM"},
		Override:    []string{"2026-02-11|AM"},
		ShiftIDs: map[string]string{
			"2026-02-10|AM": "a",
			"2026-02-11|AM": "b",
			"2026-02-12|PM": "c",
		},
	}
	first := ResolveShiftOverrides(in)
	second := ResolveShiftOverrides(in)

	assert.Equal(t, []string{"c", "a", "b"}, first.SelectedShiftIDs)
	assert.Equal(t, first, second)
}

func TestResolveEmptyInput(t *testing.T) {
	res := ResolveShiftOverrides(ResolveInput{})
	assert.NotNil(t, res.Overrides)
	assert.NotNil(t, res.SelectedShiftIDs)
	assert.Empty(t, res.Overrides)
}
