package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restoivr/internal/dialogue"
	"restoivr/internal/entities"
	"restoivr/internal/session"
)

type mockAuthService struct {
	login  func(ctx context.Context, email, password string) (string, error)
	parse  func(token string) (jwt.MapClaims, error)
	create func(ctx context.Context, email, password string) error
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return m.login(ctx, email, password)
}

func (m *mockAuthService) ParseToken(token string) (jwt.MapClaims, error) {
	return m.parse(token)
}

func (m *mockAuthService) CreateAdmin(ctx context.Context, email, password string) error {
	return m.create(ctx, email, password)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestRouter(t *testing.T, validate bool, dbErr error) (http.Handler, session.Store) {
	t.Helper()
	store := session.NewMemoryStore(time.Minute)
	authSvc := &mockAuthService{
		parse: func(token string) (jwt.MapClaims, error) {
			if token != "staff-token" {
				return nil, errors.New("invalid token")
			}
			return jwt.MapClaims{"email": "staff@bistronova.ch"}, nil
		},
	}
	admin := &mockAdminService{list: func(ctx context.Context, date, status string) (*entities.ReservationsList, error) {
		return &entities.ReservationsList{Reservations: []entities.ReservationResponse{}}, nil
	}}
	ctrl := &mockController{reply: dialogue.Reply{Say: []string{"Bonjour"}, Action: dialogue.ActionHangup}}

	return NewRouter(RouterConfig{
		Voice:             NewVoiceHandler(ctrl),
		Health:            NewHealthHandler(store, pingFunc(func(ctx context.Context) error { return dbErr })),
		Admin:             NewAdminHandler(admin),
		AdminAuth:         NewAdminAuthHandler(authSvc),
		Tokens:            authSvc,
		ValidateSignature: validate,
		TwilioAuthToken:   "12345",
		PublicBaseURL:     "https://ivr.example.ch",
		AdminRateLimit:    100,
	}), store
}

func TestRouter_Health(t *testing.T) {
	router, store := newTestRouter(t, false, nil)
	require.NoError(t, store.Update(context.Background(), "CA1", func(s *session.CallSession) error { return nil }))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","sessions":1}`, rec.Body.String())
}

func TestRouter_HealthDB(t *testing.T) {
	testCases := []struct {
		name         string
		dbErr        error
		expectedCode int
	}{
		{"Database reachable", nil, http.StatusOK},
		{"Database down", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := newTestRouter(t, false, tc.dbErr)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/db", nil))
			assert.Equal(t, tc.expectedCode, rec.Code)
		})
	}
}

func TestRouter_AdminNeedsToken(t *testing.T) {
	router, _ := newTestRouter(t, false, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/reservations", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/reservations", nil)
	req.Header.Set("Authorization", "Bearer staff-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Webhooks(t *testing.T) {
	form := url.Values{"CallSid": {"CA1"}}

	t.Run("Open webhooks answer TwiML", func(t *testing.T) {
		router, _ := newTestRouter(t, false, nil)
		for _, path := range []string{"/voice", "/route", "/qa", "/resa"} {
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code, path)
			assert.Contains(t, rec.Body.String(), "<Hangup", path)
		}
	})

	t.Run("Unsigned webhook is refused when validation is on", func(t *testing.T) {
		router, _ := newTestRouter(t, true, nil)
		req := httptest.NewRequest(http.MethodPost, "/voice", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
