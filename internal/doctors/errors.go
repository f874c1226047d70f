package doctors

import "errors"

var (
	// ErrInvalidName is returned when the doctor name is missing
	ErrInvalidName = errors.New("doctor name is required")

	// ErrInvalidSpecialty is returned when the specialty is missing
	ErrInvalidSpecialty = errors.New("doctor specialty is required")

	// ErrDoctorNotFound is returned when a doctor is not found
	ErrDoctorNotFound = errors.New("doctor not found")
)
