package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/hoaxify/internal/ctxkeys"
	"github.com/templui/hoaxify/internal/model"
)

// TokenResolver maps a bearer token to its user; nil means anonymous.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// Auth reads "Authorization: Bearer <token>" and adds the token and its user
// to the context. Missing, unknown or expired tokens leave the request
// anonymous; handlers decide whether that is allowed.
func Auth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				// No token, continue without auth
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithToken(r.Context(), token)

			user, err := resolver.Resolve(ctx, token)
			if err != nil {
				slog.Warn("failed to resolve token", "error", err, "path", r.URL.Path)
			}
			if user != nil {
				// Security: Remove password hash from context
				u := *user
				u.PasswordHash = ""
				ctx = ctxkeys.WithUser(ctx, &u)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
