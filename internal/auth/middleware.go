package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Jnxx02/logbook-kkn-generator/internal/logging"
	"github.com/Jnxx02/logbook-kkn-generator/internal/models"
)

type contextKey int

// userIDKey carries the authenticated user ID through the request context.
const userIDKey contextKey = 0

// Middleware rejects requests without a valid bearer token and stashes the
// authenticated user ID in the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			unauthorized(w, "not authenticated")
			return
		}
		userID, err := m.ParseToken(token)
		if err != nil {
			logging.Debug("rejected bearer token", map[string]interface{}{
				"path": r.URL.Path,
			})
			unauthorized(w, "could not validate credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID returns a context carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID extracts the authenticated user ID from the request context.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.ErrorDetail{Detail: detail})
}
