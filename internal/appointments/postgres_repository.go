package appointments

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/carebook/appointment-platform/internal/schedule"
)

// PostgresRepository is a Postgres-backed implementation of Repository.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a repository backed by the given database.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const appointmentColumns = `id, doctor_id, patient_id, appointment_date, start_min, end_min, reason, status, created_at, updated_at`

// Create persists a new CONFIRMED appointment and assigns its id.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	a := Appointment{
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		Date:      req.Date,
		Start:     req.Start,
		End:       req.End,
		Reason:    req.Reason,
		Status:    StatusConfirmed,
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO appointments (doctor_id, patient_id, appointment_date, start_min, end_min, reason, status)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, a.DoctorID, a.PatientID, a.Date, int(a.Start), int(a.End), a.Reason, string(a.Status)).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("appointments: create: %w", err)
	}
	return &a, nil
}

// GetByID retrieves an appointment by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: get by id: %w", err)
	}
	return a, nil
}

// ListByPatient returns the patient's appointments ordered by date and time.
func (r *PostgresRepository) ListByPatient(ctx context.Context, patientID int64) ([]Appointment, error) {
	return r.listWhere(ctx, "patient_id", patientID)
}

// ListByDoctor returns the doctor's appointments ordered by date and time.
func (r *PostgresRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]Appointment, error) {
	return r.listWhere(ctx, "doctor_id", doctorID)
}

// UpdateStatus applies a status transition, enforcing the same rules as the
// in-memory store: only CONFIRMED appointments move.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, next Status) (*Appointment, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	row := r.db.QueryRowContext(ctx, `
		UPDATE appointments SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3
		RETURNING `+appointmentColumns,
		id, string(next), string(StatusConfirmed))
	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		// Row moved out of CONFIRMED between read and update.
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: update status: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) listWhere(ctx context.Context, column string, id int64) ([]Appointment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE `+column+` = $1 ORDER BY appointment_date, start_min`, id)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*Appointment, error) {
	var a Appointment
	var startMin, endMin int
	var status string
	if err := row.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.Date, &startMin, &endMin, &a.Reason, &status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Start = schedule.TimeOfDay(startMin)
	a.End = schedule.TimeOfDay(endMin)
	a.Status = Status(status)
	return &a, nil
}
