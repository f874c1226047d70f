package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPostgresLedgerIsAvailable(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT 1 FROM doctor_bookings`).
		WithArgs(int64(1), "2026-09-01", 540, 600).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	ledger := NewPostgresLedger(db)
	ok, err := ledger.IsAvailable(context.Background(), 1, "2026-09-01", 540, 600)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected slot to be available when no conflicting rows exist")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresLedgerIsAvailableConflict(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT 1 FROM doctor_bookings`).
		WithArgs(int64(1), "2026-09-01", 540, 600).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	ledger := NewPostgresLedger(db)
	ok, err := ledger.IsAvailable(context.Background(), 1, "2026-09-01", 540, 600)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected slot to be unavailable when a conflicting row exists")
	}
}

func TestPostgresLedgerReserve(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	created := time.Now()
	mock.ExpectQuery(`INSERT INTO doctor_bookings`).
		WithArgs(int64(1), "2026-09-01", 540, 600).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), created))

	ledger := NewPostgresLedger(db)
	booking, err := ledger.Reserve(context.Background(), 1, "2026-09-01", 540, 600)
	if err != nil {
		t.Fatal(err)
	}
	if booking.ID != 11 || booking.DoctorID != 1 || booking.Start != 540 || booking.End != 600 {
		t.Errorf("unexpected booking: %+v", booking)
	}
}

func TestPostgresLedgerReserveMapsExclusionViolation(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO doctor_bookings`).
		WithArgs(int64(1), "2026-09-01", 540, 600).
		WillReturnError(&pgconn.PgError{Code: pgExclusionViolation})

	ledger := NewPostgresLedger(db)
	_, err = ledger.Reserve(context.Background(), 1, "2026-09-01", 540, 600)
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}
}

func TestPostgresLedgerBookedDoctorIDs(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT DISTINCT doctor_id FROM doctor_bookings`).
		WithArgs("2026-09-01", 540, 600).
		WillReturnRows(sqlmock.NewRows([]string{"doctor_id"}).AddRow(int64(3)).AddRow(int64(9)))

	ledger := NewPostgresLedger(db)
	booked, err := ledger.BookedDoctorIDs(context.Background(), "2026-09-01", 540, 600)
	if err != nil {
		t.Fatal(err)
	}
	if len(booked) != 2 {
		t.Fatalf("expected 2 booked doctors, got %d", len(booked))
	}
	if _, ok := booked[3]; !ok {
		t.Error("doctor 3 should be booked")
	}
}
