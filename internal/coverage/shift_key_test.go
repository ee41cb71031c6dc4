package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftKeyRoundTrip(t *testing.T) {
	key := ShiftKey("2026-02-10", "EM")
	assert.Equal(t, "2026-02-10|EM", key)

	date, code, ok := ParseShiftKey(key)
	assert.True(t, ok)
	assert.Equal(t, "2026-02-10", date)
	assert.Equal(t, "EM", code)
}

func TestShiftKeyDistinctInputsDoNotCollide(t *testing.T) {
	assert.NotEqual(t, ShiftKey("2026-02-10", "AM"), ShiftKey("2026-02-10", "PM"))
	assert.NotEqual(t, ShiftKey("2026-02-10", "AM"), ShiftKey("2026-02-11", "AM"))
}

func TestParseShiftKeyRejectsMalformed(t *testing.T) {
	for _, key := range []string{"", "2026-02-10", "2026-02-10|", "10/02/2026|AM", "2026-02-10|A|M", "2026-02-10|A M"} {
		_, _, ok := ParseShiftKey(key)
		assert.False(t, ok, key)
	}
}

func TestMergeShiftStatesPrecedence(t *testing.T) {
	states := MergeShiftStates(
		[]string{"2026-02-10|AM"},
		[]string{"2026-02-10|AM", "2026-02-10|PM"},
		[]string{"2026-02-10|PM", "2026-02-11|AM"},
	)
	assert.Equal(t, map[string]ShiftAvailability{
		"2026-02-10|AM": ShiftAssigned,
		"2026-02-10|PM": ShiftAvailable,
		"2026-02-11|AM": ShiftUnavailable,
	}, states)
}
