package api

import (
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"restoivr/internal/auth"
	"restoivr/internal/mw"
)

type RouterConfig struct {
	Voice     *VoiceHandler
	Health    *HealthHandler
	Admin     *AdminHandler
	AdminAuth *AdminAuthHandler
	Tokens    auth.TokenParser

	// ValidateSignature turns on X-Twilio-Signature checks for the webhooks.
	ValidateSignature bool
	TwilioAuthToken   string
	PublicBaseURL     string

	AdminRateLimit rate.Limit
	AdminBurst     int
}

// NewRouter wires the Twilio webhooks, health checks and the staff API.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", cfg.Health.Health).Methods("GET")
	r.HandleFunc("/health/db", cfg.Health.DB).Methods("GET")

	webhook := func(h http.HandlerFunc) http.Handler { return h }
	if cfg.ValidateSignature {
		verify := auth.TwilioSignatureMiddleware(cfg.TwilioAuthToken, cfg.PublicBaseURL)
		webhook = func(h http.HandlerFunc) http.Handler { return verify(h) }
	}
	r.Handle("/voice", webhook(cfg.Voice.Welcome)).Methods("POST")
	r.Handle("/route", webhook(cfg.Voice.MenuChoice)).Methods("POST")
	r.Handle("/qa", webhook(cfg.Voice.Question)).Methods("POST")
	r.Handle("/resa", webhook(cfg.Voice.Reservation)).Methods("POST")
	r.Handle("/status", webhook(cfg.Voice.CallStatus)).Methods("POST")

	burst := cfg.AdminBurst
	if burst <= 0 {
		burst = 10
	}
	limit := mw.RateLimiter(cfg.AdminRateLimit, burst)
	r.Handle("/admin/login", limit(http.HandlerFunc(cfg.AdminAuth.Login))).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(limit, auth.AdminAuthMiddleware(cfg.Tokens))
	admin.HandleFunc("/reservations", cfg.Admin.ListReservations).Methods("GET")
	admin.HandleFunc("/reservations/{code}", cfg.Admin.GetReservation).Methods("GET")
	admin.HandleFunc("/reservations/{code}", cfg.Admin.CancelReservation).Methods("DELETE")
	admin.HandleFunc("/capacity", cfg.Admin.GetCapacity).Methods("GET")
	admin.HandleFunc("/capacity", cfg.Admin.SetCapacity).Methods("PUT")
	admin.HandleFunc("/users", cfg.AdminAuth.CreateUserAdmin).Methods("POST")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)

	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
		handlers.CombinedLoggingHandler(os.Stdout, handlers.ProxyHeaders(cors(r))),
	)
}
