package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"restoivr/internal/db"
	"restoivr/internal/entities"
	apperrors "restoivr/internal/errors"
)

type ReservationStore interface {
	Ping(ctx context.Context) error
	Availability(ctx context.Context, date, hhmm string) (entities.Availability, error)
	BookWithinCapacity(ctx context.Context, res *db.Reservation) (entities.Availability, error)
}

type Notifier interface {
	ReservationConfirmed(n entities.ReservationNotice)
}

// ReservationService is the capacity oracle and the single writer of
// reservations made over the phone. Every store call is bounded by timeout.
type ReservationService struct {
	Repo       ReservationStore
	notifier   Notifier
	restaurant string
	timeout    time.Duration
	newCode    func() string
}

func NewReservationService(repo ReservationStore, notifier Notifier, restaurant string, timeout time.Duration) *ReservationService {
	return &ReservationService{
		Repo:       repo,
		notifier:   notifier,
		restaurant: restaurant,
		timeout:    timeout,
		newCode:    newReservationCode,
	}
}

func newReservationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *ReservationService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *ReservationService) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.Repo.Ping(ctx)
}

// Availability reports capacity and booked seats of one slot.
func (s *ReservationService) Availability(ctx context.Context, date, hhmm string) (entities.Availability, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	avail, err := s.Repo.Availability(ctx, date, hhmm)
	if err != nil {
		return entities.Availability{}, apperrors.Unavailable("availability", err)
	}
	return avail, nil
}

// Book makes exactly one attempt to store the reservation. A full slot comes
// back as *errors.CapacityError; anything else wraps ErrBackendUnavailable.
// The caller's own number stands in when no phone was given.
func (s *ReservationService) Book(ctx context.Context, req entities.ReservationRequest) (*db.Reservation, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	phone := req.Phone
	if phone == "" {
		phone = req.CallerNumber
	}

	res := &db.Reservation{
		Code:   s.newCode(),
		CallID: req.CallID,
		Name:   req.Name,
		Phone:  phone,
		People: req.People,
		Date:   req.Date,
		Time:   req.Time,
		Notes:  req.Notes,
		Status: db.StatusConfirmed,
	}

	if _, err := s.Repo.BookWithinCapacity(ctx, res); err != nil {
		if errors.Is(err, apperrors.ErrCapacityExceeded) {
			return nil, err
		}
		log.Printf("Error creating reservation for call %s: %v", req.CallID, err)
		return nil, apperrors.Unavailable("book reservation", err)
	}
	log.Printf("Reservation %s created: %d people on %s at %s", res.Code, res.People, res.Date, res.Time)

	if s.notifier != nil {
		s.notifier.ReservationConfirmed(entities.ReservationNotice{
			RestaurantName:  s.restaurant,
			ReservationCode: res.Code,
			Name:            res.Name,
			Phone:           smsNumber(req),
			People:          res.People,
			Date:            res.Date,
			Time:            res.Time,
			Notes:           res.Notes,
		})
	}
	return res, nil
}

// smsNumber prefers an E.164 number, which the given digits rarely are.
func smsNumber(req entities.ReservationRequest) string {
	switch {
	case strings.HasPrefix(req.Phone, "+"):
		return req.Phone
	case strings.HasPrefix(req.CallerNumber, "+"):
		return req.CallerNumber
	case req.Phone != "":
		return req.Phone
	}
	return req.CallerNumber
}
