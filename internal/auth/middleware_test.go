package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockParser struct {
	parse func(token string) (jwt.MapClaims, error)
}

func (m *mockParser) ParseToken(token string) (jwt.MapClaims, error) {
	return m.parse(token)
}

func TestAdminAuthMiddleware(t *testing.T) {
	parser := &mockParser{parse: func(token string) (jwt.MapClaims, error) {
		if token != "good-token" {
			return nil, errors.New("invalid token")
		}
		return jwt.MapClaims{"email": "staff@bistronova.ch"}, nil
	}}

	var seenEmail any
	handler := AdminAuthMiddleware(parser)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := Claims(r.Context())
		require.True(t, ok)
		seenEmail = claims["email"]
		w.WriteHeader(http.StatusOK)
	}))

	testCases := []struct {
		name         string
		header       string
		expectedCode int
	}{
		{"Missing header", "", http.StatusUnauthorized},
		{"Not a bearer token", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"Rejected token", "Bearer forged", http.StatusUnauthorized},
		{"Valid token", "Bearer good-token", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/reservations", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.expectedCode, rec.Code)
		})
	}
	assert.Equal(t, "staff@bistronova.ch", seenEmail)
}
