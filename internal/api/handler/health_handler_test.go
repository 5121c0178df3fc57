package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestHealth(t *testing.T) {
	t.Run("ok when store answers", func(t *testing.T) {
		p := new(MockPinger)
		p.On("Ping", mock.Anything).Return(nil).Once()

		rec := httptest.NewRecorder()
		NewHealthHandler(p, logger).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
		p.AssertExpectations(t)
	})

	t.Run("500 when store is down", func(t *testing.T) {
		p := new(MockPinger)
		p.On("Ping", mock.Anything).Return(errors.New("connection refused")).Once()

		rec := httptest.NewRecorder()
		NewHealthHandler(p, logger).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("ok without a store", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewHealthHandler(nil, logger).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
