package conversation

import (
	"strconv"
	"strings"

	"github.com/carebook/appointment-platform/internal/schedule"
)

// slotCatalog is the fixed set of one-hour windows offered for any date.
// Slots are facility-wide, not derived per doctor.
var slotCatalog = []string{
	"09:00 AM - 10:00 AM",
	"10:00 AM - 11:00 AM",
	"11:00 AM - 12:00 PM",
	"02:00 PM - 03:00 PM",
	"03:00 PM - 04:00 PM",
	"04:00 PM - 05:00 PM",
}

// SlotCatalog returns a copy of the offered time slot labels.
func SlotCatalog() []string {
	out := make([]string, len(slotCatalog))
	copy(out, slotCatalog)
	return out
}

// ParseSlotLabel converts a catalog label like "09:00 AM - 10:00 AM" into
// its start and end times.
func ParseSlotLabel(label string) (start, end schedule.TimeOfDay, err error) {
	parts := strings.SplitN(label, "-", 2)
	if len(parts) != 2 {
		return 0, 0, schedule.ErrInvalidInterval
	}
	start, err = schedule.ParseTimeOfDay(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	end, err = schedule.ParseTimeOfDay(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	if start >= end {
		return 0, 0, schedule.ErrInvalidInterval
	}
	return start, end, nil
}

// selectFromList resolves a user message against a presented option list:
// either a 1-based index or a case-insensitive substring of an option.
// Returns -1 when nothing matches.
func selectFromList(message string, options []string) int {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return -1
	}

	if idx, err := strconv.Atoi(trimmed); err == nil {
		if idx >= 1 && idx <= len(options) {
			return idx - 1
		}
		return -1
	}

	lower := strings.ToLower(trimmed)
	for i, opt := range options {
		optLower := strings.ToLower(opt)
		if strings.Contains(optLower, lower) || strings.Contains(lower, optLower) {
			return i
		}
	}
	return -1
}

// selectSlot matches a message against the slot catalog. Besides index and
// substring selection it accepts a message that merely contains the slot's
// leading clock time, so "book me at 09:00" picks the first slot.
func selectSlot(message string) int {
	if i := selectFromList(message, slotCatalog); i >= 0 {
		return i
	}
	lower := strings.ToLower(strings.TrimSpace(message))
	for i, slot := range slotCatalog {
		prefix := strings.ToLower(slot[:5])
		if strings.Contains(lower, prefix) {
			return i
		}
	}
	return -1
}
