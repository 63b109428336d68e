package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/hameddjf/movie-api/internal/httputil"
)

type contextKey string

const (
	ContextUser contextKey = "user"
)

type ContextUserData struct {
	UserID  int64
	IsStaff bool
}

type Middleware struct {
	tokens *Tokens
}

func NewMiddleware(tokens *Tokens) *Middleware {
	return &Middleware{tokens: tokens}
}

func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		claims, err := m.tokens.Verify(token, TokenAccess)
		if err != nil {
			httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ContextUser, ContextUserData{
			UserID:  claims.UserID,
			IsStaff: claims.IsStaff,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches user data when a valid token is present but lets
// anonymous requests through. Catalog reads use it to widen results for staff.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := extractToken(r); token != "" {
			if claims, err := m.tokens.Verify(token, TokenAccess); err == nil {
				ctx := context.WithValue(r.Context(), ContextUser, ContextUserData{
					UserID:  claims.UserID,
					IsStaff: claims.IsStaff,
				})
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func UserFromContext(ctx context.Context) *ContextUserData {
	if v, ok := ctx.Value(ContextUser).(ContextUserData); ok {
		return &v
	}
	return nil
}

func IsStaff(ctx context.Context) bool {
	u := UserFromContext(ctx)
	return u != nil && u.IsStaff
}

func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
