package service

import (
	"context"
	"strings"
	"time"

	"restoivr/internal/db"
	"restoivr/internal/entities"
	apperrors "restoivr/internal/errors"
	"restoivr/internal/parse"
)

type AdminStore interface {
	ListReservations(ctx context.Context, date string, statuses []string) ([]db.Reservation, error)
	ListCapacity(ctx context.Context, date string) ([]db.CapacitySlot, error)
	UpsertCapacity(ctx context.Context, slot db.CapacitySlot) error
}

type ReservationLookup interface {
	GetReservationByCode(ctx context.Context, code string) (*db.Reservation, error)
	CancelReservation(ctx context.Context, code string) error
}

type AdminService struct {
	adminRepo       AdminStore
	reservationRepo ReservationLookup
	defaultCapacity int
}

func NewAdminService(adminRepo AdminStore, reservationRepo ReservationLookup, defaultCapacity int) *AdminService {
	return &AdminService{
		adminRepo:       adminRepo,
		reservationRepo: reservationRepo,
		defaultCapacity: defaultCapacity,
	}
}

// ListReservations takes an optional date and a comma separated status list.
func (s *AdminService) ListReservations(ctx context.Context, date, status string) (*entities.ReservationsList, error) {
	if date != "" && !validDate(date) {
		return nil, apperrors.ErrBadRequest("date must be YYYY-MM-DD")
	}

	var statuses []string
	for _, st := range strings.Split(status, ",") {
		if st = strings.TrimSpace(st); st != "" {
			statuses = append(statuses, st)
		}
	}

	rows, err := s.adminRepo.ListReservations(ctx, date, statuses)
	if err != nil {
		return nil, err
	}

	list := &entities.ReservationsList{Total: len(rows), Date: date, Reservations: []entities.ReservationResponse{}}
	for _, r := range rows {
		list.Reservations = append(list.Reservations, toResponse(r))
	}
	return list, nil
}

func (s *AdminService) GetReservation(ctx context.Context, code string) (*entities.ReservationResponse, error) {
	res, err := s.reservationRepo.GetReservationByCode(ctx, normalizeCode(code))
	if err != nil {
		return nil, err
	}
	resp := toResponse(*res)
	return &resp, nil
}

func (s *AdminService) CancelReservation(ctx context.Context, code string) error {
	return s.reservationRepo.CancelReservation(ctx, normalizeCode(code))
}

func (s *AdminService) Capacity(ctx context.Context, date string) (*entities.CapacityList, error) {
	if !validDate(date) {
		return nil, apperrors.ErrBadRequest("date must be YYYY-MM-DD")
	}
	slots, err := s.adminRepo.ListCapacity(ctx, date)
	if err != nil {
		return nil, err
	}
	list := &entities.CapacityList{Date: date, DefaultCapacity: s.defaultCapacity, Slots: []entities.CapacityRequest{}}
	for _, slot := range slots {
		list.Slots = append(list.Slots, entities.CapacityRequest{Date: slot.Date, Time: slot.Time, Capacity: slot.Capacity})
	}
	return list, nil
}

func (s *AdminService) SetCapacity(ctx context.Context, req entities.CapacityRequest) error {
	if !validDate(req.Date) {
		return apperrors.ErrBadRequest("date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return apperrors.ErrBadRequest("time must be HH:MM")
	}
	if req.Capacity < 0 {
		return apperrors.ErrBadRequest("capacity cannot be negative")
	}
	return s.adminRepo.UpsertCapacity(ctx, db.CapacitySlot{Date: req.Date, Time: req.Time, Capacity: req.Capacity})
}

func toResponse(r db.Reservation) entities.ReservationResponse {
	return entities.ReservationResponse{
		Code:      r.Code,
		Name:      r.Name,
		Phone:     r.Phone,
		People:    r.People,
		Date:      r.Date,
		Time:      r.Time,
		Notes:     r.Notes,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}

// Codes are read back by phone, so case and padding are not significant.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validDate(s string) bool {
	_, err := time.Parse(parse.DateLayout, s)
	return err == nil
}
