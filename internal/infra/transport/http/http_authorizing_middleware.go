package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mkrupp/homecase-accounts/internal/domain"
	context_ "github.com/mkrupp/homecase-accounts/internal/infra/context"
	"github.com/mkrupp/homecase-accounts/internal/infra/logging"
)

// SessionValidator decodes and verifies a session token.
type SessionValidator interface {
	ValidateToken(ctx context.Context, token string) (domain.Session, error)
}

// SessionToken extracts the session token from the named cookie,
// falling back to an "Authorization: Bearer" header.
func SessionToken(r *http.Request, cookieName string) (string, error) {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		if token = strings.TrimSpace(token); token != "" {
			return token, nil
		}
	}

	return "", domain.ErrNoAuthToken
}

// AuthorizingMiddleware rejects requests without a valid session token with 401.
// On success the decoded session is added to the request context.
func AuthorizingMiddleware(
	next http.Handler,
	validator SessionValidator,
	cookieName string,
	log logging.Logger,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := SessionToken(r, cookieName)
		if err == nil {
			var session domain.Session

			session, err = validator.ValidateToken(r.Context(), token)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(context_.WithSession(r.Context(), session)))

				return
			}
		}

		if errors.Is(err, domain.ErrNoAuthToken) {
			log.WarnContext(r.Context(), "no token provided")
		} else {
			log.WarnContext(r.Context(), "invalid token", "error", err)
		}

		_ = WriteError(w, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized), "")
	})
}
