package handler

import (
	"bytes"
	"customer-service/internal/api/handler/dto"
	"customer-service/internal/config"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

const testJWTSecret = "test-jwt-secret-key"

func TestGenerateBearerToken(t *testing.T) {
	h := NewAuthHandler(config.AuthConfig{Enabled: true, JWTSecret: testJWTSecret}, logger)

	t.Run("issues a verifiable token", func(t *testing.T) {
		body, _ := json.Marshal(dto.TokenRequest{Username: "testuser"})
		rec := httptest.NewRecorder()
		h.GenerateBearerToken(rec, httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.True(t, strings.HasPrefix(resp["token"], "Bearer "))

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(strings.TrimPrefix(resp["token"], "Bearer "), claims, func(*jwt.Token) (interface{}, error) {
			return []byte(testJWTSecret), nil
		})
		require.NoError(t, err)
		assert.Equal(t, "testuser", claims["username"])
	})

	t.Run("rejects invalid json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GenerateBearerToken(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader("invalid json")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp dto.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Contains(t, resp.Error.Message, "invalid argument")
	})

	t.Run("requires username", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GenerateBearerToken(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"username":""}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp dto.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "username", resp.Error.Field)
	})
}

func TestNewAuthHandlerNilLogger(t *testing.T) {
	var h *AuthHandler
	require.NotPanics(t, func() {
		h = NewAuthHandler(config.AuthConfig{Enabled: true, JWTSecret: testJWTSecret}, nil)
	})

	rec := httptest.NewRecorder()
	h.GenerateBearerToken(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader("invalid json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
