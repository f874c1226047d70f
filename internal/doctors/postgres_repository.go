package doctors

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// PostgresRepository is a Postgres-backed implementation of Repository.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a repository backed by the given database.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Find returns doctors matching the filter, ordered by id. Specialty and
// location use ILIKE substring containment to mirror the in-memory
// semantics.
func (r *PostgresRepository) Find(ctx context.Context, filter Filter) ([]Doctor, error) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, strings.Replace(clause, "?", "$"+strconv.Itoa(len(args)), 1))
	}

	if filter.Specialty != "" {
		add("specialty ILIKE ?", "%"+strings.TrimSpace(filter.Specialty)+"%")
	}
	if filter.Location != "" {
		add("location ILIKE ?", "%"+strings.TrimSpace(filter.Location)+"%")
	}
	if filter.MaxFee > 0 {
		add("fee_per_hour <= ?", filter.MaxFee)
	}
	if filter.MinRating > 0 {
		add("rating >= ?", filter.MinRating)
	}

	query := `SELECT id, name, specialty, location, fee_per_hour, rating, years_experience FROM doctors`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("doctors: find: %w", err)
	}
	defer rows.Close()

	var out []Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialty, &d.Location, &d.FeePerHour, &d.Rating, &d.YearsExperience); err != nil {
			return nil, fmt.Errorf("doctors: scan: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetByID retrieves a doctor by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	var d Doctor
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, specialty, location, fee_per_hour, rating, years_experience
		FROM doctors WHERE id = $1
	`, id).Scan(&d.ID, &d.Name, &d.Specialty, &d.Location, &d.FeePerHour, &d.Rating, &d.YearsExperience)
	if err == sql.ErrNoRows {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("doctors: get by id: %w", err)
	}
	return &d, nil
}

// Create registers a new doctor.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d := Doctor{
		Name:            req.Name,
		Specialty:       req.Specialty,
		Location:        req.Location,
		FeePerHour:      req.FeePerHour,
		Rating:          req.Rating,
		YearsExperience: req.YearsExperience,
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO doctors (name, specialty, location, fee_per_hour, rating, years_experience)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, d.Name, d.Specialty, d.Location, d.FeePerHour, d.Rating, d.YearsExperience).Scan(&d.ID)
	if err != nil {
		return nil, fmt.Errorf("doctors: create: %w", err)
	}
	return &d, nil
}
