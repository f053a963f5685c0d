package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"restoivr/internal/session"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	sessions session.Store
	db       Pinger
}

func NewHealthHandler(sessions session.Store, db Pinger) *HealthHandler {
	return &HealthHandler{sessions: sessions, db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.sessions.Count(r.Context())
	if err != nil {
		log.Printf("Error counting sessions: %v", err)
		count = -1
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Sessions: count})
}

func (h *HealthHandler) DB(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		log.Printf("Database health check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, DBHealthResponse{Status: "unavailable", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, DBHealthResponse{Status: "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
