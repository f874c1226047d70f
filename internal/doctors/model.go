package doctors

import "strings"

// Doctor is a read-mostly projection of the doctor entity, referenced by
// booking sessions but owned by the persistence layer.
type Doctor struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Specialty       string  `json:"specialty"`
	Location        string  `json:"location"`
	FeePerHour      float64 `json:"fee_per_hour"`
	Rating          float64 `json:"rating"`
	YearsExperience int     `json:"years_experience"`
}

// Filter narrows doctor lookups. Specialty and Location match by
// case-insensitive substring containment, not exact equality.
type Filter struct {
	Specialty string
	Location  string
	MaxFee    float64
	MinRating float64
}

// Matches reports whether the doctor satisfies every set filter field.
func (f Filter) Matches(d Doctor) bool {
	if f.Specialty != "" && !containsFold(d.Specialty, f.Specialty) {
		return false
	}
	if f.Location != "" && !containsFold(d.Location, f.Location) {
		return false
	}
	if f.MaxFee > 0 && d.FeePerHour > f.MaxFee {
		return false
	}
	if f.MinRating > 0 && d.Rating < f.MinRating {
		return false
	}
	return true
}

// CreateDoctorRequest is the request body for registering a doctor.
type CreateDoctorRequest struct {
	Name            string  `json:"name"`
	Specialty       string  `json:"specialty"`
	Location        string  `json:"location"`
	FeePerHour      float64 `json:"fee_per_hour"`
	Rating          float64 `json:"rating"`
	YearsExperience int     `json:"years_experience"`
}

// Validate validates the create doctor request.
func (r *CreateDoctorRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(r.Specialty) == "" {
		return ErrInvalidSpecialty
	}
	return nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}
