package appointments

import (
	"time"

	"github.com/carebook/appointment-platform/internal/schedule"
)

// Status is the appointment lifecycle state.
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// CanTransitionTo reports whether the status change is allowed. Only
// CONFIRMED appointments move; terminal states stay put.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusConfirmed && (next == StatusCancelled || next == StatusCompleted)
}

// Appointment is a committed booking. Immutable once CONFIRMED except for
// status transitions and UpdatedAt.
type Appointment struct {
	ID        int64              `json:"id"`
	DoctorID  int64              `json:"doctor_id"`
	PatientID int64              `json:"patient_id"`
	Date      string             `json:"date"`
	Start     schedule.TimeOfDay `json:"start_minutes"`
	End       schedule.TimeOfDay `json:"end_minutes"`
	Reason    string             `json:"reason_for_visit"`
	Status    Status             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// CreateAppointmentRequest carries the fields for persisting a new
// CONFIRMED appointment. Callers reserve the slot through the ledger first.
type CreateAppointmentRequest struct {
	DoctorID  int64
	PatientID int64
	Date      string
	Start     schedule.TimeOfDay
	End       schedule.TimeOfDay
	Reason    string
}
