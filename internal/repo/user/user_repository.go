package user

import (
	"context"
	"fmt"

	"github.com/mkrupp/homecase-accounts/internal/domain"
)

// Repository defines the interface for user data persistence.
type Repository interface {
	// CreateUser adds a new user to the repository.
	// Returns domain.ErrEmailAlreadyExists or domain.ErrUsernameAlreadyExists
	// if a unique constraint rejects the insert.
	CreateUser(ctx context.Context, user *domain.User) error

	// FindUserByEmailOrUsername returns a user whose email or username matches.
	// A record matching the email is preferred over one matching only the username.
	// Returns nil and false if neither matches.
	FindUserByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, bool, error)

	// GetUserByEmail retrieves a user by their email.
	// Returns nil and false if not found.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, bool, error)

	// GetUserByUsername retrieves a user by their username.
	// Returns nil and false if not found.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, bool, error)

	// GetUserByID retrieves a user by their identifier.
	// Returns nil and false if not found.
	GetUserByID(ctx context.Context, id string) (*domain.User, bool, error)

	// ListUsers returns every stored user ordered by creation time.
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// Close releases any resources held by the repository.
	Close() error
}

// RepositoryFactory is a function that creates a new Repository instance.
// Returns an error if initialization fails.
type RepositoryFactory func(ctx context.Context) (Repository, error)

// Supported values of RepositoryConfig.Driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// RepositoryConfig selects and configures the storage backend.
type RepositoryConfig struct {
	// Driver is either "sqlite" or "postgres"
	Driver string `env:"DRIVER" default:"sqlite"`

	SQLite   SQLiteUserRepositoryConfig   `envPrefix:"SQLITE_"`
	Postgres PostgresUserRepositoryConfig `envPrefix:"POSTGRES_"`
}

// NewRepositoryFactory returns the factory for the configured driver.
func NewRepositoryFactory(cfg RepositoryConfig) (RepositoryFactory, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		return SQLiteUserRepositoryFactory(cfg.SQLite), nil
	case DriverPostgres:
		return PostgresUserRepositoryFactory(cfg.Postgres), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
