package conversation

import (
	"time"

	"github.com/carebook/appointment-platform/internal/doctors"
)

// Session is the ephemeral per-user state of an in-progress booking
// dialogue. Exactly one live session exists per user id; a put always
// replaces any prior session for that key.
type Session struct {
	UserID           string           `json:"user_id"`
	Step             Step             `json:"step"`
	Symptoms         string           `json:"symptoms,omitempty"`
	Specialty        string           `json:"specialty,omitempty"`
	CandidateDoctors []doctors.Doctor `json:"candidate_doctors,omitempty"`
	Locations        []string         `json:"locations,omitempty"`
	SelectedLocation string           `json:"selected_location,omitempty"`
	FilteredDoctors  []doctors.Doctor `json:"filtered_doctors,omitempty"`
	SelectedDoctor   *doctors.Doctor  `json:"selected_doctor,omitempty"`
	SelectedDate     string           `json:"selected_date,omitempty"`
	SelectedSlot     string           `json:"selected_slot,omitempty"`
	Reason           string           `json:"reason,omitempty"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NewSession creates a fresh session at the symptoms step.
func NewSession(userID string) *Session {
	return &Session{UserID: userID, Step: StepSymptoms, UpdatedAt: time.Now().UTC()}
}
