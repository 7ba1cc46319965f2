package context

import (
	"context"

	"github.com/mkrupp/homecase-accounts/internal/domain"
)

const contextKeySession = contextKey("session")

// SessionFromContext returns the validated session attached by the authorizing middleware.
func SessionFromContext(ctx context.Context) (domain.Session, bool) {
	session, ok := ctx.Value(contextKeySession).(domain.Session)

	return session, ok
}

// WithSession returns a context carrying the caller's validated session.
func WithSession(ctx context.Context, session domain.Session) context.Context {
	return context.WithValue(ctx, contextKeySession, session)
}
