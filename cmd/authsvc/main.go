package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mkrupp/homecase-accounts/internal/infra/logging"
	"github.com/mkrupp/homecase-accounts/internal/infra/transport/http"
	"github.com/mkrupp/homecase-accounts/internal/repo/user"
	"github.com/mkrupp/homecase-accounts/internal/svc/authsvc"
)

const (
	appName = "homecase"
	svcName = "authsvc"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := authsvc.LoadConfig(ctx, appName, svcName)
	if err != nil {
		panic(err)
	}

	if err := run(ctx, cfg); err != nil {
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg authsvc.Config) (err error) {
	log := logging.GetLogger("cmd.authsvc")

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)

			return
		}

		log.InfoContext(ctx, "shutdown")
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), //nolint:exhaustruct
	)

	repoFactory, err := user.NewRepositoryFactory(cfg.User)
	if err != nil {
		return fmt.Errorf("new repository factory: %w", err)
	}

	authSvc, err := authsvc.NewAuthService(ctx, repoFactory, cfg.Auth, reg)
	if err != nil {
		return fmt.Errorf("new auth service: %w", err)
	}
	defer authSvc.Close()

	if cfg.Auth.SeedFile != "" {
		seed, err := authsvc.LoadSeedFile(cfg.Auth.SeedFile)
		if err != nil {
			return fmt.Errorf("load seed file: %w", err)
		}

		if _, err := authSvc.SeedUsers(ctx, seed.Users); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	httpTransport := authsvc.NewHTTPTransport(authSvc, cfg.HTTP)

	if err := http.ListenAndServe(ctx, httpTransport, cfg.HTTP.HTTPTransportConfig, reg); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}
