package coverage

// ResolveInput is a substitute's declared response for one coverage request. Each slice holds
// shift keys; ShiftIDs maps keys of the request's own shifts to their durable identifiers.
type ResolveInput struct {
	Selected    []string
	Override    []string
	Available   []string
	Unavailable []string
	ShiftIDs    map[string]string
}

// ShiftOverrideRecord is a persistable per-shift selection row.
type ShiftOverrideRecord struct {
	ShiftID              string `json:"shift_id"`
	Selected             bool   `json:"selected"`
	OverrideAvailability bool   `json:"override_availability"`
}

// ResolveResult holds the override rows to persist and the shifts to book.
type ResolveResult struct {
	Overrides        []ShiftOverrideRecord `json:"overrides"`
	SelectedShiftIDs []string              `json:"selected_shift_ids"`
}

// ResolveShiftOverrides turns a raw response into override rows and bookable shift ids.
//
// Available shifts are selected when listed in Selected. Unavailable shifts are selected only
// when listed in both Selected and Override. Keys without an identifier are dropped, which also
// drops overrides for shifts outside the request. A key listed as both available and unavailable
// is resolved once, as available. Output follows input order, available keys first.
func ResolveShiftOverrides(in ResolveInput) ResolveResult {
	selected := toSet(in.Selected)
	override := toSet(in.Override)
	seen := make(map[string]struct{}, len(in.Available)+len(in.Unavailable))

	result := ResolveResult{
		Overrides:        []ShiftOverrideRecord{},
		SelectedShiftIDs: []string{},
	}

	for _, key := range in.Available {
		if _, dup := seen[key]; dup {
			continue
		}
		shiftID, ok := in.ShiftIDs[key]
		if !ok {
			continue
		}
		seen[key] = struct{}{}
		_, isSelected := selected[key]
		result.Overrides = append(result.Overrides, ShiftOverrideRecord{
			ShiftID:              shiftID,
			Selected:             isSelected,
			OverrideAvailability: false,
		})
		if isSelected {
			result.SelectedShiftIDs = append(result.SelectedShiftIDs, shiftID)
		}
	}

	for _, key := range in.Unavailable {
		if _, dup := seen[key]; dup {
			continue
		}
		shiftID, ok := in.ShiftIDs[key]
		if !ok {
			continue
		}
		seen[key] = struct{}{}
		_, isOverride := override[key]
		_, isSelected := selected[key]
		isSelected = isSelected && isOverride
		result.Overrides = append(result.Overrides, ShiftOverrideRecord{
			ShiftID:              shiftID,
			Selected:             isSelected,
			OverrideAvailability: isOverride,
		})
		if isSelected {
			result.SelectedShiftIDs = append(result.SelectedShiftIDs, shiftID)
		}
	}

	return result
}

func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
