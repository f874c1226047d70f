package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for booking dates. The whole system runs
// in one facility-local timezone, so dates and times carry no zone.
const DateLayout = "2006-01-02"

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay accepts 24-hour ("14:00") and 12-hour ("02:00 PM") clock
// strings.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)

	meridiem := ""
	upper := strings.ToUpper(s)
	if strings.HasSuffix(upper, "AM") || strings.HasSuffix(upper, "PM") {
		meridiem = upper[len(upper)-2:]
		s = strings.TrimSpace(s[:len(s)-2])
	}

	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("schedule: invalid clock time %q", s)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("schedule: invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("schedule: invalid minute in %q", s)
	}

	switch meridiem {
	case "PM":
		if hour != 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("schedule: clock time %q out of range", s)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// String renders the time in 24-hour "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Minutes returns the raw minutes-since-midnight value.
func (t TimeOfDay) Minutes() int { return int(t) }

// ValidDate reports whether s is a well-formed calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Interval is a doctor/date/time-range triple: either a proposed slot being
// validated or a committed booking record.
type Interval struct {
	DoctorID int64
	Date     string
	Start    TimeOfDay
	End      TimeOfDay
}

// Overlaps applies half-open interval semantics: back-to-back slots where
// one ends exactly when the next starts do not conflict.
func (iv Interval) Overlaps(other Interval) bool {
	if iv.DoctorID != other.DoctorID || iv.Date != other.Date {
		return false
	}
	return iv.Start < other.End && other.Start < iv.End
}

// Booking is a committed interval held by the ledger.
type Booking struct {
	ID        int64     `json:"id"`
	DoctorID  int64     `json:"doctor_id"`
	Date      string    `json:"date"`
	Start     TimeOfDay `json:"start_minutes"`
	End       TimeOfDay `json:"end_minutes"`
	CreatedAt time.Time `json:"created_at"`
}
