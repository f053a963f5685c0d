package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/lib/pq"

	"restoivr/internal/db"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{DB: db}
}

// GetConfirmedReservationIDsBefore lists confirmed reservations dated before day.
func (r *JobRepository) GetConfirmedReservationIDsBefore(ctx context.Context, day string) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id FROM reservations WHERE status = $1 AND reservation_date < $2`,
		db.StatusConfirmed, day)
	if err != nil {
		return nil, fmt.Errorf("error querying past reservations: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning reservation ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

// UpdateReservationStatuses sets newStatus on every id and returns the rows touched.
func (r *JobRepository) UpdateReservationStatuses(ctx context.Context, ids []int, newStatus string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.DB.ExecContext(ctx,
		`UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = ANY($2)`,
		newStatus, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("error updating reservation statuses: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
		return 0, nil
	}
	return n, nil
}
