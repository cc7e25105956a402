package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/kannan-innovates/zenCode"
)

type contextKey struct{ name string }

var accessInfoKey = contextKey{"accessInfo"}

// accessFrom returns the verified identity attached by requireAuth.
func accessFrom(ctx context.Context) (*zencode.AccessInfo, bool) {
	info, ok := ctx.Value(accessInfoKey).(*zencode.AccessInfo)
	return info, ok
}

// requireAuth verifies the bearer access token and attaches the decoded
// identity to the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, zencode.ErrUnauthorized)
			return
		}

		info, err := s.engine.VerifyAccess(token)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), accessInfoKey, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole gates a route group on an exact role match. It must run
// after requireAuth.
func (s *Server) requireRole(role zencode.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info, ok := accessFrom(r.Context())
			if !ok {
				writeError(w, zencode.ErrUnauthorized)
				return
			}
			if info.Role != role {
				writeError(w, zencode.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
