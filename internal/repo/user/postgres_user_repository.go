package user

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	"github.com/mkrupp/homecase-accounts/internal/domain"
	"github.com/mkrupp/homecase-accounts/internal/infra/logging"
)

//go:embed migrations/*.sql
var migrations embed.FS

const postgresUserColumns = "id, username, email, password_hash, is_admin, created_at"

// PostgresUserRepositoryConfig holds configuration for the PostgreSQL user repository.
type PostgresUserRepositoryConfig struct {
	// DSN is the libpq-style connection string or postgres:// URL
	DSN string `env:"DSN" default:"postgres://localhost:5432/accounts?sslmode=disable"`

	// ConnectRetries is how often the initial ping is retried before giving up
	ConnectRetries int `env:"CONNECT_RETRIES" default:"5"`

	// ConnectBackoff is the base delay of the exponential ping backoff
	ConnectBackoff time.Duration `env:"CONNECT_BACKOFF" default:"200ms"`
}

// pgxPool is the subset of *pgxpool.Pool used by the repository.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresUserRepository implements Repository using PostgreSQL as the storage backend.
type PostgresUserRepository struct {
	pool pgxPool
	log  logging.Logger
}

var _ Repository = (*PostgresUserRepository)(nil)

// PostgresUserRepositoryFactory creates a factory function that returns a new PostgresUserRepository.
func PostgresUserRepositoryFactory(cfg PostgresUserRepositoryConfig) RepositoryFactory {
	return func(ctx context.Context) (Repository, error) {
		return NewPostgresUserRepository(ctx, cfg)
	}
}

// NewPostgresUserRepository connects to PostgreSQL, waits for it to answer
// and applies the embedded migrations.
func NewPostgresUserRepository(ctx context.Context, cfg PostgresUserRepositoryConfig) (*PostgresUserRepository, error) {
	log := logging.GetLogger("repo.user.postgres_user_repository")

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}

	retries := max(cfg.ConnectRetries, 0)
	backoff := retry.WithMaxRetries(uint64(retries), retry.NewExponential(max(cfg.ConnectBackoff, time.Millisecond)))

	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			log.WarnContext(ctx, "ping failed", "error", err)

			return retry.RetryableError(err)
		}

		return nil
	}); err != nil {
		pool.Close()

		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := migratePostgres(ctx, pool); err != nil {
		pool.Close()

		return nil, fmt.Errorf("migrate db: %w", err)
	}

	log.DebugContext(ctx, "user repository opened")

	return NewPostgresUserRepositoryFromPool(pool), nil
}

// NewPostgresUserRepositoryFromPool wraps an existing pool without running migrations.
func NewPostgresUserRepositoryFromPool(pool pgxPool) *PostgresUserRepository {
	return &PostgresUserRepository{
		pool: pool,
		log:  logging.GetLogger("repo.user.postgres_user_repository"),
	}
}

func migratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}

// CreateUser implements Repository.CreateUser using PostgreSQL.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx,
		"INSERT INTO users ("+postgresUserColumns+") VALUES ($1, $2, $3, $4, $5, $6)",
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsAdmin,
		user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			err = errors.Join(postgresDuplicateError(pgErr), err)
		}

		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func postgresDuplicateError(err *pgconn.PgError) error {
	switch err.ConstraintName {
	case "users_email_key":
		return domain.ErrEmailAlreadyExists
	case "users_username_key":
		return domain.ErrUsernameAlreadyExists
	default:
		return domain.ErrUserAlreadyExists
	}
}

// FindUserByEmailOrUsername implements Repository.FindUserByEmailOrUsername using PostgreSQL.
func (r *PostgresUserRepository) FindUserByEmailOrUsername(
	ctx context.Context,
	email, username string,
) (*domain.User, bool, error) {
	return r.queryUser(ctx,
		"SELECT "+postgresUserColumns+" FROM users WHERE email = $1 OR username = $2 ORDER BY (email = $1) DESC LIMIT 1",
		email, username,
	)
}

// GetUserByEmail implements Repository.GetUserByEmail using PostgreSQL.
func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, bool, error) {
	return r.queryUser(ctx, "SELECT "+postgresUserColumns+" FROM users WHERE email = $1", email)
}

// GetUserByUsername implements Repository.GetUserByUsername using PostgreSQL.
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, bool, error) {
	return r.queryUser(ctx, "SELECT "+postgresUserColumns+" FROM users WHERE username = $1", username)
}

// GetUserByID implements Repository.GetUserByID using PostgreSQL.
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, bool, error) {
	return r.queryUser(ctx, "SELECT "+postgresUserColumns+" FROM users WHERE id = $1", id)
}

func (r *PostgresUserRepository) queryUser(ctx context.Context, query string, args ...any) (*domain.User, bool, error) {
	user, err := scanPostgresUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("query user: %w", err)
	}

	return user, true, nil
}

// ListUsers implements Repository.ListUsers using PostgreSQL.
func (r *PostgresUserRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+postgresUserColumns+" FROM users ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User

	for rows.Next() {
		user, err := scanPostgresUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

func scanPostgresUser(row pgx.Row) (*domain.User, error) {
	var user domain.User

	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}

	user.CreatedAt = user.CreatedAt.UTC()

	return &user, nil
}

// Close implements Repository.Close by closing the connection pool.
func (r *PostgresUserRepository) Close() error {
	r.pool.Close()

	return nil
}
