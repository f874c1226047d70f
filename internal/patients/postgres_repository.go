package patients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// PostgresRepository is a Postgres-backed implementation of Repository.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a repository backed by the given database.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create registers a new patient.
func (r *PostgresRepository) Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := Patient{Name: req.Name, Email: req.Email, Phone: req.Phone}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO patients (name, email, phone)
		VALUES ($1, lower($2), $3)
		RETURNING id, created_at
	`, p.Name, p.Email, p.Phone).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("patients: create: %w", err)
	}
	return &p, nil
}

// GetByID retrieves a patient by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Patient, error) {
	var p Patient
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, COALESCE(phone, ''), created_at
		FROM patients WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("patients: get by id: %w", err)
	}
	return &p, nil
}

// GetByEmail retrieves a patient by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Patient, error) {
	var p Patient
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, COALESCE(phone, ''), created_at
		FROM patients WHERE email = lower($1)
	`, email).Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("patients: get by email: %w", err)
	}
	return &p, nil
}
