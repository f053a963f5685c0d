package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/lib/pq"

	"restoivr/internal/db"
)

type AdminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

// ListReservations filters by date and status when they are not empty.
func (r *AdminRepository) ListReservations(ctx context.Context, date string, statuses []string) ([]db.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE 1=1`
	args := []any{}
	idx := 1

	if date != "" {
		query += " AND reservation_date = $" + strconv.Itoa(idx)
		args = append(args, date)
		idx++
	}
	if len(statuses) > 0 {
		query += " AND status = ANY($" + strconv.Itoa(idx) + ")"
		args = append(args, pq.Array(statuses))
		idx++
	}
	query += " ORDER BY reservation_date, reservation_time, id"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	defer rows.Close()

	var reservations []db.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		reservations = append(reservations, *res)
	}
	return reservations, rows.Err()
}

func (r *AdminRepository) ListCapacity(ctx context.Context, date string) ([]db.CapacitySlot, error) {
	rows, err := r.DB.QueryContext(ctx, `
	SELECT to_char(slot_date, 'YYYY-MM-DD'), slot_time, capacity
	FROM capacity_slots WHERE slot_date = $1 ORDER BY slot_time`, date)
	if err != nil {
		return nil, fmt.Errorf("error listing capacity: %w", err)
	}
	defer rows.Close()

	var slots []db.CapacitySlot
	for rows.Next() {
		var s db.CapacitySlot
		if err := rows.Scan(&s.Date, &s.Time, &s.Capacity); err != nil {
			return nil, fmt.Errorf("error scanning capacity slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *AdminRepository) UpsertCapacity(ctx context.Context, slot db.CapacitySlot) error {
	_, err := r.DB.ExecContext(ctx, `
	INSERT INTO capacity_slots (slot_date, slot_time, capacity) VALUES ($1, $2, $3)
	ON CONFLICT (slot_date, slot_time) DO UPDATE SET capacity = EXCLUDED.capacity`,
		slot.Date, slot.Time, slot.Capacity)
	if err != nil {
		return fmt.Errorf("error saving capacity for %s %s: %w", slot.Date, slot.Time, err)
	}
	return nil
}
