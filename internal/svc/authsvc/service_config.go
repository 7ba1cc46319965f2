package authsvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkrupp/homecase-accounts/internal/infra/config"
	"github.com/mkrupp/homecase-accounts/internal/infra/logging"
	"github.com/mkrupp/homecase-accounts/internal/repo/user"
)

// Config is the process configuration shared by the service and its admin CLI.
type Config struct {
	config.EnvConfig

	Log  logging.LoggerConfig  `envPrefix:"LOG_"`
	Auth AuthConfig            `envPrefix:"AUTH_"`
	HTTP HTTPTransportConfig   `envPrefix:"HTTP_"`
	User user.RepositoryConfig `envPrefix:"USER_"`
}

// LoadConfig parses Config from the environment under the APPNAME_SVCNAME namespace
// and configures logging under the appname.svcname logger name.
func LoadConfig(ctx context.Context, appName, svcName string) (Config, error) {
	var (
		cfg Config

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	logging.Configure(ctx, cfg.Log, loggerName)

	logging.GetLogger("svc.authsvc.config").With(logging.Group("config",
		"namespace", cfg.Namespace(),
		"user_driver", cfg.User.Driver,
		"server_addr", cfg.HTTP.ServerAddr,
	)).DebugContext(ctx, "config loaded")

	return cfg, nil
}
