package middleware

import (
	"context"
	"customer-service/internal/config"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const usernameKey contextKey = "username"

var errMalformedHeader = errors.New("authorization header must be 'Bearer <token>'")

// withUsername records the authenticated username. When StructuredLogger has
// installed a slot further out, the name is written into it so the access log
// line can carry it after the handler returns.
func withUsername(ctx context.Context, name string) context.Context {
	if slot, ok := ctx.Value(usernameKey).(*string); ok {
		*slot = name
		return ctx
	}
	return context.WithValue(ctx, usernameKey, &name)
}

func usernameFromContext(ctx context.Context) (string, bool) {
	slot, ok := ctx.Value(usernameKey).(*string)
	if !ok || *slot == "" {
		return "", false
	}
	return *slot, true
}

// AuthMiddleware requires a valid HS256 bearer token when cfg.Enabled is set
// and is a pass-through otherwise.
func AuthMiddleware(cfg config.AuthConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "AuthMiddleware")
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := parseBearer(r, parser, cfg.JWTSecret)
			if err != nil {
				logger.WarnContext(r.Context(), "Rejected unauthenticated request", slog.String("path", r.URL.Path), slog.Any("error", err))
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := r.Context()
			if name, ok := claims["username"].(string); ok {
				ctx = withUsername(ctx, name)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseBearer(r *http.Request, parser *jwt.Parser, secret string) (jwt.MapClaims, error) {
	authHeader := r.Header.Get("Authorization")
	scheme, tokenString, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || tokenString == "" {
		return nil, errMalformedHeader
	}

	claims := jwt.MapClaims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"message": message,
		},
	})
}
