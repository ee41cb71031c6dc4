package coverage

import (
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/coverage-api/internal/models"
)

// MaxAbsenceDays bounds the date range an absence may span.
const MaxAbsenceDays = 366

// DeriveAbsenceShifts expands a staff member's weekly baseline slots into the dated shifts an
// absence affects. Shifts are ordered by date, time-slot code and classroom, and each shift key
// appears once. With ShiftSelectionSelected only shifts whose key is in selectedKeys are kept,
// and a malformed selected key is an error. Slots whose time-slot code cannot form a key are
// skipped. Day numbers follow ISO 8601 (Monday = 1, Sunday = 7).
func DeriveAbsenceShifts(startDate, endDate string, mode models.ShiftSelectionMode, selectedKeys []string, slots []models.TeacherScheduleSlot) ([]models.AbsenceShift, error) {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q", startDate)
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q", endDate)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s is before start date %s", endDate, startDate)
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > MaxAbsenceDays {
		return nil, fmt.Errorf("absence spans %d days, maximum is %d", days, MaxAbsenceDays)
	}

	var keep map[string]struct{}
	switch mode {
	case models.ShiftSelectionAllScheduled:
	case models.ShiftSelectionSelected:
		for _, key := range selectedKeys {
			if _, _, ok := ParseShiftKey(key); !ok {
				return nil, fmt.Errorf("invalid shift key %q", key)
			}
		}
		keep = toSet(selectedKeys)
	default:
		return nil, fmt.Errorf("unknown shift selection mode %q", mode)
	}

	byDay := make(map[int][]models.TeacherScheduleSlot)
	for _, slot := range slots {
		if !ValidTimeSlotCode(slot.TimeSlotCode) {
			continue
		}
		byDay[slot.DayNumber] = append(byDay[slot.DayNumber], slot)
	}

	var shifts []models.AbsenceShift
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(DateLayout)
		for _, slot := range byDay[isoWeekday(day)] {
			if keep != nil {
				if _, ok := keep[ShiftKey(date, slot.TimeSlotCode)]; !ok {
					continue
				}
			}
			shifts = append(shifts, models.AbsenceShift{
				Date:          date,
				DayOfWeekID:   slot.DayOfWeekID,
				TimeSlotID:    slot.TimeSlotID,
				TimeSlotCode:  slot.TimeSlotCode,
				ClassroomID:   slot.ClassroomID,
				ClassroomName: slot.ClassroomName,
			})
		}
	}

	sort.SliceStable(shifts, func(i, j int) bool {
		if shifts[i].Date != shifts[j].Date {
			return shifts[i].Date < shifts[j].Date
		}
		if shifts[i].TimeSlotCode != shifts[j].TimeSlotCode {
			return shifts[i].TimeSlotCode < shifts[j].TimeSlotCode
		}
		return shifts[i].ClassroomID < shifts[j].ClassroomID
	})

	// One shift per key: a floater placed in several rooms yields the first room only.
	unique := shifts[:0]
	seen := make(map[string]struct{}, len(shifts))
	for _, shift := range shifts {
		key := ShiftKey(shift.Date, shift.TimeSlotCode)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, shift)
	}
	return unique, nil
}

func isoWeekday(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7
}
