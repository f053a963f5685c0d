package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"restoivr/internal/db"
	"restoivr/internal/entities"
	apperrors "restoivr/internal/errors"
)

const reservationColumns = `id, code, call_id, name, phone, people,
	to_char(reservation_date, 'YYYY-MM-DD'), reservation_time, notes, status, created_at, updated_at`

// querier is what *sql.DB and *sql.Tx have in common.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type ReservationRepository struct {
	DB              *sql.DB
	DefaultCapacity int
}

func NewReservationRepository(db *sql.DB, defaultCapacity int) *ReservationRepository {
	return &ReservationRepository{DB: db, DefaultCapacity: defaultCapacity}
}

func (r *ReservationRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func (r *ReservationRepository) Availability(ctx context.Context, date, hhmm string) (entities.Availability, error) {
	return availability(ctx, r.DB, date, hhmm, r.DefaultCapacity)
}

// BookWithinCapacity counts and inserts inside one transaction holding an
// advisory lock on the slot, so two calls cannot both take the last seats.
// A full slot yields a *errors.CapacityError and nothing is written.
func (r *ReservationRepository) BookWithinCapacity(ctx context.Context, res *db.Reservation) (entities.Availability, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return entities.Availability{}, fmt.Errorf("error starting booking transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, res.Date+" "+res.Time); err != nil {
		return entities.Availability{}, fmt.Errorf("error locking slot %s %s: %w", res.Date, res.Time, err)
	}

	avail, err := availability(ctx, tx, res.Date, res.Time, r.DefaultCapacity)
	if err != nil {
		return entities.Availability{}, err
	}
	if !avail.Fits(res.People) {
		return avail, &apperrors.CapacityError{Remaining: avail.Remaining()}
	}

	if err := insertReservation(ctx, tx, res); err != nil {
		return avail, err
	}
	if err := tx.Commit(); err != nil {
		return avail, fmt.Errorf("error committing reservation: %w", err)
	}
	avail.Booked += res.People
	return avail, nil
}

func (r *ReservationRepository) GetReservationByCode(ctx context.Context, code string) (*db.Reservation, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE code = $1`, code)
	res, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrReservationNotFound
	}
	return res, err
}

// CancelReservation frees the seats of a confirmed reservation.
func (r *ReservationRepository) CancelReservation(ctx context.Context, code string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE reservations SET status = $1, updated_at = NOW() WHERE code = $2 AND status = $3`,
		db.StatusCanceled, code, db.StatusConfirmed)
	if err != nil {
		return fmt.Errorf("error canceling reservation %s: %w", code, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrReservationNotFound
	}
	return nil
}

func availability(ctx context.Context, q querier, date, hhmm string, fallback int) (entities.Availability, error) {
	seats, err := capacity(ctx, q, date, hhmm, fallback)
	if err != nil {
		return entities.Availability{}, err
	}
	booked, err := countBooked(ctx, q, date, hhmm)
	if err != nil {
		return entities.Availability{}, err
	}
	return entities.Availability{Date: date, Time: hhmm, Capacity: seats, Booked: booked}, nil
}

func countBooked(ctx context.Context, q querier, date, hhmm string) (int, error) {
	var booked int
	err := q.QueryRowContext(ctx, `
	SELECT COALESCE(SUM(people), 0) FROM reservations
	WHERE reservation_date = $1 AND reservation_time = $2 AND status <> $3`,
		date, hhmm, db.StatusCanceled).Scan(&booked)
	if err != nil {
		return 0, fmt.Errorf("error counting booked seats for %s %s: %w", date, hhmm, err)
	}
	return booked, nil
}

func capacity(ctx context.Context, q querier, date, hhmm string, fallback int) (int, error) {
	var seats int
	err := q.QueryRowContext(ctx,
		`SELECT capacity FROM capacity_slots WHERE slot_date = $1 AND slot_time = $2`,
		date, hhmm).Scan(&seats)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error reading capacity for %s %s: %w", date, hhmm, err)
	}
	return seats, nil
}

func insertReservation(ctx context.Context, q querier, res *db.Reservation) error {
	if res.Status == "" {
		res.Status = db.StatusConfirmed
	}
	query := `
	INSERT INTO reservations (code, call_id, name, phone, people, reservation_date, reservation_time, notes, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, created_at, updated_at`
	err := q.QueryRowContext(ctx, query,
		res.Code, res.CallID, res.Name, res.Phone, res.People, res.Date, res.Time, res.Notes, res.Status,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting reservation: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*db.Reservation, error) {
	var res db.Reservation
	err := row.Scan(&res.ID, &res.Code, &res.CallID, &res.Name, &res.Phone, &res.People,
		&res.Date, &res.Time, &res.Notes, &res.Status, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
