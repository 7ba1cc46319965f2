package http

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/mkrupp/homecase-accounts/internal/infra/logging"
)

// RescueingMiddleware recovers from panics in HTTP handlers.
// It logs the panic with its stack trace and answers 500 with a JSON error body.
func RescueingMiddleware(next http.Handler, log logging.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func(ctx context.Context) {
			p := recover()
			if p == nil {
				return
			}

			if p == http.ErrAbortHandler { //nolint:errorlint,err113
				panic(p)
			}

			log.ErrorContext(ctx, "request panic", slog.Group("http",
				"uri", r.RequestURI,
				"method", r.Method,
			), slog.Group("error",
				"panic", p,
				"stack", string(debug.Stack()),
			))

			_ = WriteError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), "")
		}(r.Context())

		next.ServeHTTP(w, r)
	})
}
