package authsvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mkrupp/homecase-accounts/internal/domain"
	context_ "github.com/mkrupp/homecase-accounts/internal/infra/context"
	"github.com/mkrupp/homecase-accounts/internal/infra/logging"
	http_ "github.com/mkrupp/homecase-accounts/internal/infra/transport/http"
)

// Response messages of the account API.
const (
	MsgUserCreated     = "User created successfully."
	MsgLoginSuccessful = "Login successful"
	MsgLogout          = "logout successfully"
	MsgUsersRetrieved  = "Users retrieved successfully"
)

// HTTPTransportConfig contains configuration parameters for the HTTP transport layer.
type HTTPTransportConfig struct {
	http_.HTTPTransportConfig

	// CookieName is the name of the session cookie
	CookieName string `env:"COOKIE_NAME" default:"token"`

	// CookieSecure adds the Secure attribute to the session cookie
	CookieSecure bool `env:"COOKIE_SECURE" default:"false"`

	// RequireAdminListing restricts the user listing to authenticated admins
	RequireAdminListing bool `env:"REQUIRE_ADMIN_LISTING" default:"false"`
}

// HTTPTransport serves the account API:
//   - POST /api/auth/register: create an account
//   - POST /api/auth/login: log in and receive the session cookie
//   - GET|POST /api/auth/logout: clear the session cookie
//   - GET /api/auth/session: decode the caller's session
//   - GET /api/users, GET /api/getAllUsers: list all accounts
type HTTPTransport struct {
	authSvc *AuthService
	log     logging.Logger
	cfg     HTTPTransportConfig
	mux     *http.ServeMux
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport backed by authSvc.
func NewHTTPTransport(authSvc *AuthService, cfg HTTPTransportConfig) *HTTPTransport {
	if cfg.CookieName == "" {
		cfg.CookieName = "token"
	}

	ht := &HTTPTransport{
		authSvc: authSvc,
		log:     logging.GetLogger("svc.authsvc.http_transport"),
		cfg:     cfg,
		mux:     http.NewServeMux(),
	}

	var listUsers http.Handler = http.HandlerFunc(ht.HandleListUsers)
	if cfg.RequireAdminListing {
		listUsers = ht.requireSession(ht.requireAdmin(listUsers))
	}

	ht.mux.HandleFunc("POST /api/auth/register", ht.HandleRegister)
	ht.mux.HandleFunc("POST /api/auth/login", ht.HandleLogin)
	ht.mux.HandleFunc("GET /api/auth/logout", ht.HandleLogout)
	ht.mux.HandleFunc("POST /api/auth/logout", ht.HandleLogout)
	ht.mux.Handle("GET /api/auth/session", ht.requireSession(http.HandlerFunc(ht.HandleSession)))
	ht.mux.Handle("GET /api/users", listUsers)
	ht.mux.Handle("GET /api/getAllUsers", listUsers)

	return ht
}

// ServeHTTP implements http.Handler. Unknown routes and methods get JSON errors.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := http_.ServeMuxJSON(ht.mux, w, r); err != nil {
		ht.httpLog(r).ErrorContext(r.Context(), "write error response failed", "error", err)
	}
}

func (ht *HTTPTransport) requireSession(next http.Handler) http.Handler {
	return http_.AuthorizingMiddleware(next, ht.authSvc, ht.cfg.CookieName, ht.log)
}

func (ht *HTTPTransport) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := context_.SessionFromContext(r.Context())
		if !ok {
			ht.writeError(w, r, domain.ErrUnauthorized)

			return
		}

		admin, err := ht.authSvc.IsAdmin(r.Context(), session.ID)
		if err != nil {
			ht.writeError(w, r, fmt.Errorf("check admin: %w", err))

			return
		} else if !admin {
			ht.writeError(w, r, domain.ErrForbidden)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeError maps a service error to its status code and JSON body.
// Unexpected faults are reported with their message verbatim.
func (ht *HTTPTransport) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status  = http.StatusInternalServerError
		message = err.Error()
		field   string
		vErr    *domain.ValidationError
	)

	switch {
	case errors.As(err, &vErr):
		status, message, field = http.StatusBadRequest, vErr.Message, vErr.Field
	case errors.Is(err, domain.ErrUserAlreadyExists):
		status, field = http.StatusBadRequest, domain.DuplicateField(err)

		switch field {
		case "email":
			message = "Email already exists"
		case "username":
			message = "Username already exists"
		default:
			message = "User already exists"
		}
	case errors.Is(err, domain.ErrUserNotFound):
		status, message = http.StatusBadRequest, "User does not exist"
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, message = http.StatusBadRequest, "Invalid password"
	case errors.Is(err, domain.ErrNoUsersFound):
		status, message = http.StatusNotFound, "No users found"
	case errors.Is(err, domain.ErrUnauthorized):
		status, message = http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized)
	case errors.Is(err, domain.ErrForbidden):
		status, message = http.StatusForbidden, http.StatusText(http.StatusForbidden)
	}

	if werr := http_.WriteError(w, status, message, field); werr != nil {
		ht.log.ErrorContext(r.Context(), "write error response failed", "error", werr)
	}
}

func (ht *HTTPTransport) httpLog(r *http.Request) logging.Logger {
	return ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))
}

// HandleRegister processes registration requests.
// Expects a JSON body with username, email and password.
func (ht *HTTPTransport) HandleRegister(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleRegister(w, r)
}

func (ht *HTTPTransport) handleRegister(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.httpLog(r)

	defer func(ctx context.Context) {
		if err != nil {
			log.DebugContext(ctx, "user register failed", "error", err)
		} else {
			log.DebugContext(ctx, "user registered")
		}
	}(r.Context())

	var req RegisterRequest
	if err := http_.DecodeJSON(w, r, &req); err != nil {
		ht.writeError(w, r, err)

		return err
	}

	savedUser, err := ht.authSvc.RegisterUser(r.Context(), req)
	if err != nil {
		ht.writeError(w, r, err)

		return fmt.Errorf("register user: %w", err)
	}

	return http_.WriteJSON(w, http.StatusOK, domain.RegisterResponse{
		Message:   MsgUserCreated,
		Success:   true,
		SavedUser: savedUser,
	})
}

// HandleLogin processes login requests.
// Expects a JSON body with emailOrUsername and password.
// On success the session token is set as an HTTP-only session cookie.
func (ht *HTTPTransport) HandleLogin(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleLogin(w, r)
}

func (ht *HTTPTransport) handleLogin(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.httpLog(r)

	defer func(ctx context.Context) {
		if err != nil {
			log.DebugContext(ctx, "user login failed", "error", err)
		} else {
			log.DebugContext(ctx, "user logged in")
		}
	}(r.Context())

	var req LoginRequest
	if err := http_.DecodeJSON(w, r, &req); err != nil {
		ht.writeError(w, r, err)

		return err
	}

	loggedIn, token, err := ht.authSvc.Login(r.Context(), req)
	if err != nil {
		ht.writeError(w, r, err)

		return fmt.Errorf("login user: %w", err)
	}

	//nolint:exhaustruct
	http.SetCookie(w, &http.Cookie{
		Name:     ht.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   ht.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	return http_.WriteJSON(w, http.StatusOK, domain.LoginResponse{
		User:    loggedIn,
		Message: MsgLoginSuccessful,
		Success: true,
	})
}

// HandleLogout clears the session cookie. It never checks the caller's identity.
func (ht *HTTPTransport) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := ht.handleLogout(w); err != nil {
		ht.httpLog(r).ErrorContext(r.Context(), "user logout failed", "error", err)
	}
}

func (ht *HTTPTransport) handleLogout(w http.ResponseWriter) error {
	//nolint:exhaustruct
	http.SetCookie(w, &http.Cookie{
		Name:     ht.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   ht.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	return http_.WriteJSON(w, http.StatusOK, domain.MessageResponse{
		Message: MsgLogout,
		Success: true,
	})
}

// HandleSession returns the claims of the validated session cookie.
func (ht *HTTPTransport) HandleSession(w http.ResponseWriter, r *http.Request) {
	session, ok := context_.SessionFromContext(r.Context())
	if !ok {
		ht.writeError(w, r, domain.ErrUnauthorized)

		return
	}

	if err := http_.WriteJSON(w, http.StatusOK, domain.SessionResponse{Session: session, Success: true}); err != nil {
		ht.httpLog(r).ErrorContext(r.Context(), "write session failed", "error", err)
	}
}

// HandleListUsers returns every stored account.
func (ht *HTTPTransport) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleListUsers(w, r)
}

func (ht *HTTPTransport) handleListUsers(w http.ResponseWriter, r *http.Request) (err error) {
	defer func(ctx context.Context) {
		if err != nil {
			ht.httpLog(r).DebugContext(ctx, "list users failed", "error", err)
		}
	}(r.Context())

	users, err := ht.authSvc.ListUsers(r.Context())
	if err != nil {
		ht.writeError(w, r, err)

		return fmt.Errorf("list users: %w", err)
	}

	return http_.WriteJSON(w, http.StatusOK, domain.UsersResponse{
		Users:   users,
		Message: MsgUsersRetrieved,
		Success: true,
	})
}
