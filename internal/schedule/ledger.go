package schedule

import "context"

// Ledger owns the set of booked (doctor, date, time-range) intervals and
// answers availability and conflict queries.
//
// Reserve must be atomic with respect to other reservations for the same
// doctor: two concurrent attempts for overlapping intervals cannot both
// succeed, and the loser receives ErrSlotConflict.
type Ledger interface {
	// IsAvailable reports whether no committed interval for the doctor on
	// that date overlaps [start, end).
	IsAvailable(ctx context.Context, doctorID int64, date string, start, end TimeOfDay) (bool, error)

	// Reserve atomically re-checks availability and commits the interval.
	Reserve(ctx context.Context, doctorID int64, date string, start, end TimeOfDay) (*Booking, error)

	// BookedDoctorIDs returns the doctors with a committed interval
	// overlapping [start, end) on the given date. Used to pre-filter
	// doctor lists before presenting choices.
	BookedDoctorIDs(ctx context.Context, date string, start, end TimeOfDay) (map[int64]struct{}, error)

	// BookingsFor lists the committed intervals for a doctor on a date.
	BookingsFor(ctx context.Context, doctorID int64, date string) ([]Booking, error)
}

func validateInterval(date string, start, end TimeOfDay) error {
	if !ValidDate(date) || start >= end || start < 0 || end > 24*60 {
		return ErrInvalidInterval
	}
	return nil
}
