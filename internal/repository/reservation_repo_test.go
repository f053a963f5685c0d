package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restoivr/internal/db"
	apperrors "restoivr/internal/errors"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, mock
}

func expectAvailability(mock sqlmock.Sqlmock, date, hhmm string, capacity, booked int) {
	capRows := sqlmock.NewRows([]string{"capacity"})
	if capacity >= 0 {
		capRows.AddRow(capacity)
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT capacity FROM capacity_slots")).
		WithArgs(date, hhmm).
		WillReturnRows(capRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(people), 0) FROM reservations")).
		WithArgs(date, hhmm, db.StatusCanceled).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(booked))
}

func TestReservationRepository_Availability(t *testing.T) {
	testCases := []struct {
		name             string
		configured       int
		booked           int
		expectedCapacity int
	}{
		{name: "Configured slot", configured: 10, booked: 8, expectedCapacity: 10},
		{name: "Unconfigured slot uses default", configured: -1, booked: 0, expectedCapacity: 40},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conn, mock := newTestDB(t)
			repo := NewReservationRepository(conn, 40)

			expectAvailability(mock, "2024-06-11", "19:30", tc.configured, tc.booked)

			avail, err := repo.Availability(context.Background(), "2024-06-11", "19:30")
			require.NoError(t, err)
			assert.Equal(t, tc.expectedCapacity, avail.Capacity)
			assert.Equal(t, tc.booked, avail.Booked)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReservationRepository_BookWithinCapacity(t *testing.T) {
	now := time.Now()

	testCases := []struct {
		name             string
		people           int
		mockExpectations func(mock sqlmock.Sqlmock)
		expectedErr      error
		remaining        int
	}{
		{
			name:   "Fits in the slot",
			people: 2,
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
					WithArgs("2024-06-11 19:30").
					WillReturnResult(sqlmock.NewResult(0, 0))
				expectAvailability(mock, "2024-06-11", "19:30", 10, 8)
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reservations")).
					WithArgs("AB12CD34", "CA1", "Marie", "0791234567", 2, "2024-06-11", "19:30", "", db.StatusConfirmed).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))
				mock.ExpectCommit()
			},
		},
		{
			name:   "Slot is full",
			people: 3,
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock")).
					WithArgs("2024-06-11 19:30").
					WillReturnResult(sqlmock.NewResult(0, 0))
				expectAvailability(mock, "2024-06-11", "19:30", 10, 8)
				mock.ExpectRollback()
			},
			expectedErr: apperrors.ErrCapacityExceeded,
			remaining:   2,
		},
		{
			name:   "Insert fails",
			people: 2,
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock")).
					WillReturnResult(sqlmock.NewResult(0, 0))
				expectAvailability(mock, "2024-06-11", "19:30", 10, 0)
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reservations")).
					WillReturnError(errors.New("connection reset"))
				mock.ExpectRollback()
			},
			expectedErr: errors.New("connection reset"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conn, mock := newTestDB(t)
			repo := NewReservationRepository(conn, 40)
			tc.mockExpectations(mock)

			res := &db.Reservation{
				Code:   "AB12CD34",
				CallID: "CA1",
				Name:   "Marie",
				Phone:  "0791234567",
				People: tc.people,
				Date:   "2024-06-11",
				Time:   "19:30",
			}
			avail, err := repo.BookWithinCapacity(context.Background(), res)

			switch {
			case tc.expectedErr == nil:
				require.NoError(t, err)
				assert.Equal(t, 7, res.ID)
				assert.Equal(t, db.StatusConfirmed, res.Status)
				assert.Equal(t, 10, avail.Booked)
			case errors.Is(tc.expectedErr, apperrors.ErrCapacityExceeded):
				require.ErrorIs(t, err, apperrors.ErrCapacityExceeded)
				var capErr *apperrors.CapacityError
				require.ErrorAs(t, err, &capErr)
				assert.Equal(t, tc.remaining, capErr.Remaining)
				assert.Equal(t, 0, res.ID)
			default:
				assert.ErrorContains(t, err, tc.expectedErr.Error())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReservationRepository_GetReservationByCode(t *testing.T) {
	conn, mock := newTestDB(t)
	repo := NewReservationRepository(conn, 40)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM reservations WHERE code = $1")).
		WithArgs("AB12CD34").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "call_id", "name", "phone", "people", "date", "time", "notes", "status", "created_at", "updated_at"}).
			AddRow(1, "AB12CD34", "CA1", "Marie", "079", 4, "2024-06-11", "19:30", "", "confirmed", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM reservations WHERE code = $1")).
		WithArgs("NOPE").
		WillReturnError(sql.ErrNoRows)

	res, err := repo.GetReservationByCode(context.Background(), "AB12CD34")
	require.NoError(t, err)
	assert.Equal(t, "Marie", res.Name)
	assert.Equal(t, 4, res.People)

	_, err = repo.GetReservationByCode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, apperrors.ErrReservationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_CancelReservation(t *testing.T) {
	conn, mock := newTestDB(t)
	repo := NewReservationRepository(conn, 40)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET status = $1")).
		WithArgs(db.StatusCanceled, "AB12CD34", db.StatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET status = $1")).
		WithArgs(db.StatusCanceled, "GONE", db.StatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.CancelReservation(context.Background(), "AB12CD34"))
	assert.ErrorIs(t, repo.CancelReservation(context.Background(), "GONE"), apperrors.ErrReservationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_ListReservations(t *testing.T) {
	conn, mock := newTestDB(t)
	repo := NewAdminRepository(conn)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("AND reservation_date = $1 AND status = ANY($2)")).
		WithArgs("2024-06-11", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "call_id", "name", "phone", "people", "date", "time", "notes", "status", "created_at", "updated_at"}).
			AddRow(1, "AAAA1111", "CA1", "Marie", "079", 4, "2024-06-11", "19:30", "", "confirmed", now, now).
			AddRow(2, "BBBB2222", "CA2", "Paul", "078", 2, "2024-06-11", "20:00", "terrasse", "confirmed", now, now))

	list, err := repo.ListReservations(context.Background(), "2024-06-11", []string{"confirmed"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Paul", list[1].Name)
	assert.Equal(t, "terrasse", list[1].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_UpsertCapacity(t *testing.T) {
	conn, mock := newTestDB(t)
	repo := NewAdminRepository(conn)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (slot_date, slot_time) DO UPDATE")).
		WithArgs("2024-06-11", "19:30", 10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertCapacity(context.Background(), db.CapacitySlot{Date: "2024-06-11", Time: "19:30", Capacity: 10})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepository_FinishPastReservations(t *testing.T) {
	conn, mock := newTestDB(t)
	repo := NewJobRepository(conn)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM reservations WHERE status = $1 AND reservation_date < $2")).
		WithArgs(db.StatusConfirmed, "2024-06-10").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3).AddRow(5))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = ANY($2)")).
		WithArgs(db.StatusFinished, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	ids, err := repo.GetConfirmedReservationIDsBefore(context.Background(), "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5}, ids)

	n, err := repo.UpdateReservationStatuses(context.Background(), ids, db.StatusFinished)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repo.UpdateReservationStatuses(context.Background(), nil, db.StatusFinished)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
