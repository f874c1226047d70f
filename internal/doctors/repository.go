package doctors

import (
	"context"
	"sort"
	"sync"
)

// Repository defines the interface for doctor storage
type Repository interface {
	Find(ctx context.Context, filter Filter) ([]Doctor, error)
	GetByID(ctx context.Context, id int64) (*Doctor, error)
	Create(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error)
}

// InMemoryRepository is an in-memory implementation of Repository
type InMemoryRepository struct {
	mu      sync.RWMutex
	doctors map[int64]Doctor
	nextID  int64
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{doctors: make(map[int64]Doctor)}
}

// Find returns every doctor satisfying the filter, ordered by id for a
// stable ranking tie-break.
func (r *InMemoryRepository) Find(ctx context.Context, filter Filter) ([]Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Doctor
	for _, d := range r.doctors {
		if filter.Matches(d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetByID retrieves a doctor by id
func (r *InMemoryRepository) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	return &d, nil
}

// Create registers a new doctor
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	d := Doctor{
		ID:              r.nextID,
		Name:            req.Name,
		Specialty:       req.Specialty,
		Location:        req.Location,
		FeePerHour:      req.FeePerHour,
		Rating:          req.Rating,
		YearsExperience: req.YearsExperience,
	}
	r.doctors[d.ID] = d
	return &d, nil
}

// SeedDemo loads a small roster covering the supported specialties so the
// service is usable without a database.
func (r *InMemoryRepository) SeedDemo(ctx context.Context) error {
	seed := []CreateDoctorRequest{
		{Name: "Dr. Sarah Chen", Specialty: "Cardiology", Location: "Downtown Medical Center", FeePerHour: 220, Rating: 4.9, YearsExperience: 15},
		{Name: "Dr. James Okafor", Specialty: "Cardiology", Location: "Northside Clinic", FeePerHour: 180, Rating: 4.6, YearsExperience: 11},
		{Name: "Dr. Priya Raman", Specialty: "Dermatology", Location: "Downtown Medical Center", FeePerHour: 150, Rating: 4.7, YearsExperience: 9},
		{Name: "Dr. Elena Petrova", Specialty: "Pulmonology", Location: "Northside Clinic", FeePerHour: 170, Rating: 4.5, YearsExperience: 12},
		{Name: "Dr. Marcus Webb", Specialty: "Gastroenterology", Location: "Downtown Medical Center", FeePerHour: 190, Rating: 4.4, YearsExperience: 14},
		{Name: "Dr. Aisha Diallo", Specialty: "Orthopedics", Location: "Westgate Hospital", FeePerHour: 210, Rating: 4.8, YearsExperience: 16},
		{Name: "Dr. Tom Eriksen", Specialty: "Ophthalmology", Location: "Westgate Hospital", FeePerHour: 160, Rating: 4.3, YearsExperience: 8},
		{Name: "Dr. Lucia Marchetti", Specialty: "ENT", Location: "Northside Clinic", FeePerHour: 140, Rating: 4.2, YearsExperience: 7},
		{Name: "Dr. David Park", Specialty: "Neurology", Location: "Downtown Medical Center", FeePerHour: 240, Rating: 4.9, YearsExperience: 18},
		{Name: "Dr. Hannah Liu", Specialty: "Neurology", Location: "Westgate Hospital", FeePerHour: 200, Rating: 4.9, YearsExperience: 10},
		{Name: "Dr. Omar Haddad", Specialty: "General Medicine", Location: "Northside Clinic", FeePerHour: 100, Rating: 4.1, YearsExperience: 6},
		{Name: "Dr. Grace Mwangi", Specialty: "General Medicine", Location: "Downtown Medical Center", FeePerHour: 110, Rating: 4.4, YearsExperience: 9},
	}
	for i := range seed {
		if _, err := r.Create(ctx, &seed[i]); err != nil {
			return err
		}
	}
	return nil
}
