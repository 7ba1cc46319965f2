package authsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mkrupp/homecase-accounts/internal/domain"
	"github.com/mkrupp/homecase-accounts/internal/infra/logging"
	"github.com/mkrupp/homecase-accounts/internal/repo/user"
)

// AuthService provides registration, login, session validation and user listing.
// It holds no session state; sessions live in signed tokens only.
type AuthService struct {
	Config   AuthConfig
	UserRepo user.Repository
	Hasher   PasswordHasher
	Tokens   *TokenIssuer
	Metrics  *AuthMetrics
	Log      logging.Logger
}

// NewAuthService creates the repository through repoFactory and wires the hashing
// and token services from cfg. Metrics are registered with reg when it is non-nil.
func NewAuthService(
	ctx context.Context,
	repoFactory user.RepositoryFactory,
	cfg AuthConfig,
	reg prometheus.Registerer,
) (*AuthService, error) {
	log := logging.GetLogger("svc.authsvc.auth_service")

	if cfg.TokenSecret == "" {
		log.WarnContext(ctx, "no token secret configured, logins will fail")
	}

	userRepo, err := repoFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("new user repo: %w", err)
	}

	return &AuthService{
		Config:   cfg,
		UserRepo: userRepo,
		Hasher:   NewBcryptHasher(cfg.BcryptCost),
		Tokens:   NewTokenIssuer(cfg.TokenSecret, cfg.TokenDuration),
		Metrics:  NewAuthMetrics(reg),
		Log:      log,
	}, nil
}

// logResult logs client-caused failures at WARN, faults at ERROR and success at DEBUG.
func (s *AuthService) logResult(ctx context.Context, log logging.Logger, msg string, err error) {
	switch {
	case err == nil:
		log.DebugContext(ctx, msg)
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrUserAlreadyExists),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrNoUsersFound):
		log.WarnContext(ctx, msg+" failed", "error", err)
	default:
		log.ErrorContext(ctx, msg+" failed", "error", err)
	}
}

// RegisterUser validates req, rejects duplicates and stores a new non-admin user.
// An email collision is reported before a username collision.
func (s *AuthService) RegisterUser(ctx context.Context, req RegisterRequest) (_ *domain.User, err error) {
	log := s.Log.With(logging.Group("user", "username", req.Username, "email", req.Email))

	defer func() {
		s.Metrics.Registrations.WithLabelValues(registrationOutcome(err)).Inc()
		s.logResult(ctx, log, "register user", err)
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return s.createUser(ctx, req, false)
}

func registrationOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, domain.ErrInvalidRequest):
		return outcomeInvalidRequest
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return outcomeDuplicate
	default:
		return outcomeError
	}
}

func (s *AuthService) createUser(ctx context.Context, req RegisterRequest, admin bool) (*domain.User, error) {
	existing, ok, err := s.UserRepo.FindUserByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if ok {
		if existing.Email == req.Email {
			return nil, domain.ErrEmailAlreadyExists
		}

		return nil, domain.ErrUsernameAlreadyExists
	}

	passwordHash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("new user id: %w", err)
	}

	newUser := &domain.User{
		ID:           id.String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		IsAdmin:      admin,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}

	if err := s.UserRepo.CreateUser(ctx, newUser); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return newUser, nil
}

// Login resolves req.EmailOrUsername to a user, verifies the password and issues
// a signed session token. The identifier is treated as an email if it looks like one.
// Unknown identifiers yield domain.ErrUserNotFound, wrong passwords domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (_ *domain.User, _ string, err error) {
	log := s.Log.With(logging.Group("login", "identifier", req.EmailOrUsername))

	defer func() {
		s.Metrics.Logins.WithLabelValues(loginOutcome(err)).Inc()
		s.logResult(ctx, log, "login", err)
	}()

	if err := req.Validate(); err != nil {
		return nil, "", err
	}

	var (
		found *domain.User
		ok    bool
	)

	if IsEmail(req.EmailOrUsername) {
		found, ok, err = s.UserRepo.GetUserByEmail(ctx, req.EmailOrUsername)
	} else {
		found, ok, err = s.UserRepo.GetUserByUsername(ctx, req.EmailOrUsername)
	}

	if err != nil {
		return nil, "", fmt.Errorf("get user: %w", err)
	} else if !ok {
		return nil, "", domain.ErrUserNotFound
	}

	valid, err := s.Hasher.Verify(req.Password, found.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("verify password: %w", err)
	} else if !valid {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, session, err := s.Tokens.Issue(found)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	log.With(logging.Group("session",
		"user_id", session.ID,
		"exp", time.Unix(session.ExpiresAt, 0).UTC().Format(time.RFC3339),
	)).DebugContext(ctx, "session issued")

	return found, token, nil
}

func loginOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, domain.ErrInvalidRequest):
		return outcomeInvalidRequest
	case errors.Is(err, domain.ErrUserNotFound):
		return outcomeNotFound
	case errors.Is(err, domain.ErrInvalidCredentials):
		return outcomeInvalidPassword
	default:
		return outcomeError
	}
}

// ValidateToken verifies a session token's signature and expiry.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (domain.Session, error) {
	session, err := s.Tokens.Validate(token)
	if err != nil {
		s.Log.DebugContext(ctx, "validate token failed", "error", err)

		return domain.Session{}, fmt.Errorf("validate token: %w", err)
	}

	return session, nil
}

// ListUsers returns every stored user, or domain.ErrNoUsersFound if there are none.
func (s *AuthService) ListUsers(ctx context.Context) (_ []*domain.User, err error) {
	defer func() {
		s.logResult(ctx, s.Log, "list users", err)
	}()

	users, err := s.UserRepo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	if len(users) == 0 {
		return nil, domain.ErrNoUsersFound
	}

	return users, nil
}

// IsAdmin reports whether the user with the given id exists and has the admin flag.
func (s *AuthService) IsAdmin(ctx context.Context, id string) (bool, error) {
	found, ok, err := s.UserRepo.GetUserByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("get user: %w", err)
	}

	return ok && found.IsAdmin, nil
}

// Close releases resources held by the service, such as database connections.
func (s *AuthService) Close() error {
	if err := s.UserRepo.Close(); err != nil {
		return fmt.Errorf("close user repo: %w", err)
	}

	return nil
}
