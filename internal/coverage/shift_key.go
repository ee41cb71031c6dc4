package coverage

import (
	"strings"
	"time"
)

// ShiftKeyDelimiter separates the date and time-slot code in a shift key.
const ShiftKeyDelimiter = "|"

// DateLayout is the ISO calendar date format used in shift keys.
const DateLayout = "2006-01-02"

// ShiftKey canonicalises a (date, time-slot code) pair.
func ShiftKey(date, timeSlotCode string) string {
	return date + ShiftKeyDelimiter + timeSlotCode
}

// ParseShiftKey splits a key produced by ShiftKey and validates both parts.
func ParseShiftKey(key string) (date, timeSlotCode string, ok bool) {
	parts := strings.Split(key, ShiftKeyDelimiter)
	if len(parts) != 2 {
		return "", "", false
	}
	if !ValidDate(parts[0]) || !ValidTimeSlotCode(parts[1]) {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// ValidDate reports whether value is a YYYY-MM-DD calendar date.
func ValidDate(value string) bool {
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

// ValidTimeSlotCode reports whether code is a non-empty short alphanumeric code.
func ValidTimeSlotCode(code string) bool {
	if code == "" || len(code) > 16 {
		return false
	}
	for _, r := range code {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlnum && r != '_' && r != '-' {
			return false
		}
	}
	return true
}
