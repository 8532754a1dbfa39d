package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bilasin/bilasin/internal/auth"
	"github.com/bilasin/bilasin/internal/domain"
	"github.com/bilasin/bilasin/internal/tenant"
)

type contextKey string

// RequireAdmin authenticates the request with a bearer token and binds the
// owning admin to the request context. Requests without a valid token are
// rejected before reaching the handler.
func RequireAdmin(admins domain.AdminRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "Authentication required")
				return
			}

			// Tokens are stored hashed; look up by digest so a database
			// leak never exposes usable credentials.
			admin, err := admins.GetByTokenDigest(r.Context(), auth.DigestToken(token))
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := tenant.NewContext(r.Context(), admin)

			// Enrich the request logger so everything after auth logs
			// under the tenant it acted for.
			logger := GetLogger(ctx).With(slog.Int64("admin_id", admin.ID))
			ctx = context.WithValue(ctx, loggerKey, logger)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
