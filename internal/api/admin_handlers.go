package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"restoivr/internal/auth"
	"restoivr/internal/entities"
	apperrors "restoivr/internal/errors"
)

// AdminService is what the staff endpoints need from the service layer.
type AdminService interface {
	ListReservations(ctx context.Context, date, status string) (*entities.ReservationsList, error)
	GetReservation(ctx context.Context, code string) (*entities.ReservationResponse, error)
	CancelReservation(ctx context.Context, code string) error
	Capacity(ctx context.Context, date string) (*entities.CapacityList, error)
	SetCapacity(ctx context.Context, req entities.CapacityRequest) error
}

type AdminHandler struct {
	Service AdminService
}

func NewAdminHandler(svc AdminService) *AdminHandler {
	return &AdminHandler{Service: svc}
}

func (h *AdminHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	status := r.URL.Query().Get("status")
	reservations, err := h.Service.ListReservations(r.Context(), date, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

func (h *AdminHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.GetReservation(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AdminHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	if err := h.Service.CancelReservation(r.Context(), code); err != nil {
		writeError(w, err)
		return
	}
	if claims, ok := auth.Claims(r.Context()); ok {
		log.Printf("Reservation %s canceled by %v", code, claims["email"])
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Reservation canceled"})
}

func (h *AdminHandler) GetCapacity(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.Capacity(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) SetCapacity(w http.ResponseWriter, r *http.Request) {
	var req entities.CapacityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Service.SetCapacity(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Capacity updated"})
}

func writeError(w http.ResponseWriter, err error) {
	var httpErr *apperrors.HTTPError
	switch {
	case errors.As(err, &httpErr):
		http.Error(w, httpErr.Message, httpErr.Code)
	case errors.Is(err, apperrors.ErrReservationNotFound):
		http.Error(w, "Reservation not found", http.StatusNotFound)
	default:
		log.Printf("Admin request failed: %v", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
	}
}
