package appointments

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Repository defines the interface for appointment storage
type Repository interface {
	Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error)
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	ListByPatient(ctx context.Context, patientID int64) ([]Appointment, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]Appointment, error)
	UpdateStatus(ctx context.Context, id int64, next Status) (*Appointment, error)
}

// InMemoryRepository is an in-memory implementation of Repository
type InMemoryRepository struct {
	mu           sync.RWMutex
	appointments map[int64]Appointment
	nextID       int64
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{appointments: make(map[int64]Appointment)}
}

// Create persists a new CONFIRMED appointment and assigns its id.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	r.nextID++
	a := Appointment{
		ID:        r.nextID,
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		Date:      req.Date,
		Start:     req.Start,
		End:       req.End,
		Reason:    req.Reason,
		Status:    StatusConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.appointments[a.ID] = a
	return &a, nil
}

// GetByID retrieves an appointment by id
func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return &a, nil
}

// ListByPatient returns the patient's appointments ordered by date then
// start time.
func (r *InMemoryRepository) ListByPatient(ctx context.Context, patientID int64) ([]Appointment, error) {
	return r.list(func(a Appointment) bool { return a.PatientID == patientID }), nil
}

// ListByDoctor returns the doctor's appointments ordered by date then start
// time.
func (r *InMemoryRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]Appointment, error) {
	return r.list(func(a Appointment) bool { return a.DoctorID == doctorID }), nil
}

// UpdateStatus applies a status transition, maintaining UpdatedAt.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id int64, next Status) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	if !a.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}
	a.Status = next
	a.UpdatedAt = time.Now().UTC()
	r.appointments[id] = a
	return &a, nil
}

func (r *InMemoryRepository) list(keep func(Appointment) bool) []Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Appointment
	for _, a := range r.appointments {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Start < out[j].Start
	})
	return out
}
