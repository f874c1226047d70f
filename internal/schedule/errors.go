package schedule

import "errors"

var (
	// ErrSlotConflict is returned when a reservation loses the race for an
	// overlapping interval. Losing the race is a recoverable, reported
	// condition, never silent corruption.
	ErrSlotConflict = errors.New("time slot conflicts with an existing booking")

	// ErrInvalidInterval is returned for malformed intervals (bad date,
	// end not after start).
	ErrInvalidInterval = errors.New("invalid time interval")
)
