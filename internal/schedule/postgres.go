package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes surfaced by the non-overlap constraint.
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

// PostgresLedger stores committed intervals in the doctor_bookings table.
// The non-overlap invariant is enforced by an exclusion constraint on
// (doctor_id, booking_date, int4range(start_min, end_min)), so a lost
// reservation race surfaces as a constraint violation which is mapped to
// ErrSlotConflict.
type PostgresLedger struct {
	db *sql.DB
}

// NewPostgresLedger creates a ledger backed by the given database.
func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// IsAvailable reports whether [start, end) is free for the doctor on date.
func (l *PostgresLedger) IsAvailable(ctx context.Context, doctorID int64, date string, start, end TimeOfDay) (bool, error) {
	if err := validateInterval(date, start, end); err != nil {
		return false, err
	}

	var exists int
	err := l.db.QueryRowContext(ctx, `
		SELECT 1 FROM doctor_bookings
		WHERE doctor_id = $1 AND booking_date = $2::date
		  AND start_min < $4 AND end_min > $3
		LIMIT 1
	`, doctorID, date, int(start), int(end)).Scan(&exists)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("schedule: availability check: %w", err)
	}
	return false, nil
}

// Reserve commits [start, end), relying on the exclusion constraint for the
// atomic check-then-insert.
func (l *PostgresLedger) Reserve(ctx context.Context, doctorID int64, date string, start, end TimeOfDay) (*Booking, error) {
	if err := validateInterval(date, start, end); err != nil {
		return nil, err
	}

	var booking Booking
	err := l.db.QueryRowContext(ctx, `
		INSERT INTO doctor_bookings (doctor_id, booking_date, start_min, end_min)
		VALUES ($1, $2::date, $3, $4)
		RETURNING id, created_at
	`, doctorID, date, int(start), int(end)).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == pgExclusionViolation || pgErr.Code == pgUniqueViolation) {
			return nil, ErrSlotConflict
		}
		return nil, fmt.Errorf("schedule: reserve: %w", err)
	}

	booking.DoctorID = doctorID
	booking.Date = date
	booking.Start = start
	booking.End = end
	return &booking, nil
}

// BookedDoctorIDs returns doctors with a committed interval overlapping
// [start, end) on date.
func (l *PostgresLedger) BookedDoctorIDs(ctx context.Context, date string, start, end TimeOfDay) (map[int64]struct{}, error) {
	if err := validateInterval(date, start, end); err != nil {
		return nil, err
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT DISTINCT doctor_id FROM doctor_bookings
		WHERE booking_date = $1::date AND start_min < $3 AND end_min > $2
	`, date, int(start), int(end))
	if err != nil {
		return nil, fmt.Errorf("schedule: booked doctors: %w", err)
	}
	defer rows.Close()

	booked := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("schedule: scan booked doctor: %w", err)
		}
		booked[id] = struct{}{}
	}
	return booked, rows.Err()
}

// BookingsFor lists the committed intervals for a doctor on a date.
func (l *PostgresLedger) BookingsFor(ctx context.Context, doctorID int64, date string) ([]Booking, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, doctor_id, booking_date, start_min, end_min, created_at
		FROM doctor_bookings
		WHERE doctor_id = $1 AND booking_date = $2::date
		ORDER BY start_min
	`, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("schedule: list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		var b Booking
		var startMin, endMin int
		if err := rows.Scan(&b.ID, &b.DoctorID, &b.Date, &startMin, &endMin, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("schedule: scan booking: %w", err)
		}
		b.Start = TimeOfDay(startMin)
		b.End = TimeOfDay(endMin)
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
