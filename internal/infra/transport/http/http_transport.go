package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkrupp/homecase-accounts/internal/infra/logging"
)

// HTTPTransportConfig contains configuration parameters for HTTP servers.
type HTTPTransportConfig struct {
	// ServerAddr is the network address to listen on
	ServerAddr string `env:"SERVER_ADDR" default:":8080"`

	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" default:"5s"`
	ReadTimeout       time.Duration `env:"READ_TIMEOUT" default:"5s"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" default:"10s"`

	// ShutdownTimeout bounds how long in-flight requests may take after the context is cancelled
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`

	// MetricsPath is where the Prometheus registry is exposed; empty disables it
	MetricsPath string `env:"METRICS_PATH" default:"/metrics"`
}

// HTTPTransport defines the interface for HTTP handlers that can serve requests.
type HTTPTransport interface {
	http.Handler
}

// NewHandler wraps handler with the standard middleware chain:
// tracing, metrics (when reg is non-nil), logging and panic recovery.
// If reg is non-nil and cfg.MetricsPath is set, the registry is served there.
func NewHandler(handler HTTPTransport, cfg HTTPTransportConfig, reg *prometheus.Registry) http.Handler {
	log := logging.GetLogger("infra.transport.http")

	if reg != nil && cfg.MetricsPath != "" {
		mux := http.NewServeMux()
		mux.Handle("GET "+cfg.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		mux.Handle("/", handler)
		handler = mux
	}

	var h http.Handler = handler

	h = RescueingMiddleware(h, log)
	h = LoggingMiddleware(h, log)

	if reg != nil {
		h = MetricsMiddleware(h, NewHTTPMetrics(reg))
	}

	return TracingMiddleware(h)
}

// ListenAndServe starts an HTTP server with the given handler and configuration
// and blocks until ctx is cancelled or the server fails.
// On cancellation, in-flight requests get cfg.ShutdownTimeout to complete.
func ListenAndServe(
	ctx context.Context,
	handler HTTPTransport,
	cfg HTTPTransportConfig,
	reg *prometheus.Registry,
) error {
	log := logging.GetLogger("infra.transport.http")

	//nolint:exhaustruct
	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           NewHandler(handler, cfg, reg),
		ErrorLog:          logging.GetLogLogger(log, logging.LevelError),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	sock, err := net.Listen("tcp", cfg.ServerAddr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	log.InfoContext(ctx, "listening", "addr", sock.Addr().String())

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- server.Serve(sock)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	log.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
