package middleware

import (
	"customer-service/internal/config"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "testsecret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.AuthConfig{Enabled: true, JWTSecret: testSecret}

	var seenUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser, _ = usernameFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	serve := func(cfg config.AuthConfig, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		AuthMiddleware(cfg, logger)(next).ServeHTTP(rec, req)
		return rec
	}

	t.Run("passes through when disabled", func(t *testing.T) {
		rec := serve(config.AuthConfig{Enabled: false}, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects missing header", func(t *testing.T) {
		rec := serve(cfg, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":{"message":"Unauthorized"}}`, rec.Body.String())
	})

	t.Run("rejects malformed header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(cfg, "Token abc").Code)
		assert.Equal(t, http.StatusUnauthorized, serve(cfg, "Bearer").Code)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(cfg, "Bearer invalidtoken").Code)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		token := signToken(t, "other", jwt.MapClaims{"username": "ops", "exp": time.Now().Add(time.Hour).Unix()})
		assert.Equal(t, http.StatusUnauthorized, serve(cfg, "Bearer "+token).Code)
	})

	t.Run("rejects expired or non-expiring token", func(t *testing.T) {
		expired := signToken(t, testSecret, jwt.MapClaims{"username": "ops", "exp": time.Now().Add(-time.Hour).Unix()})
		assert.Equal(t, http.StatusUnauthorized, serve(cfg, "Bearer "+expired).Code)

		forever := signToken(t, testSecret, jwt.MapClaims{"username": "ops"})
		assert.Equal(t, http.StatusUnauthorized, serve(cfg, "Bearer "+forever).Code)
	})

	t.Run("accepts valid token and exposes username", func(t *testing.T) {
		seenUser = ""
		token := signToken(t, testSecret, jwt.MapClaims{"username": "ops", "exp": time.Now().Add(time.Hour).Unix()})
		rec := serve(cfg, "bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ops", seenUser)
	})
}
