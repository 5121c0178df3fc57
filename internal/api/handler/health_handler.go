package handler

import (
	"context"
	"customer-service/internal/api/handler/dto"
	"customer-service/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store  Pinger
	logger *slog.Logger
}

func NewHealthHandler(store Pinger, l *slog.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		logger: l.With("component", "HealthHandler"),
	}
}

// Health handles GET /health
// @Summary Liveness and store reachability
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 500 {object} dto.ErrorResponse "Store unreachable"
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			h.logger.ErrorContext(r.Context(), "Health check failed", slog.Any("error", err))
			respondError(w, fmt.Errorf("%w: store unreachable", apperrors.ErrInternalServer))
			return
		}
	}
	respondJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}
