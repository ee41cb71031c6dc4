package coverage

// ShiftAvailability is a substitute's standing on a shift.
type ShiftAvailability string

const (
	ShiftAssigned    ShiftAvailability = "assigned"
	ShiftAvailable   ShiftAvailability = "available"
	ShiftUnavailable ShiftAvailability = "unavailable"
)

var availabilityRank = map[ShiftAvailability]int{
	ShiftAssigned:    3,
	ShiftAvailable:   2,
	ShiftUnavailable: 1,
}

// MergeShiftStates folds keyed shift lists into one state per key. On collision the higher
// precedence wins: assigned, then available, then unavailable.
func MergeShiftStates(assigned, available, unavailable []string) map[string]ShiftAvailability {
	states := make(map[string]ShiftAvailability, len(assigned)+len(available)+len(unavailable))
	put := func(keys []string, state ShiftAvailability) {
		for _, key := range keys {
			if current, ok := states[key]; ok && availabilityRank[current] >= availabilityRank[state] {
				continue
			}
			states[key] = state
		}
	}
	put(unavailable, ShiftUnavailable)
	put(available, ShiftAvailable)
	put(assigned, ShiftAssigned)
	return states
}
