package authsvc

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mkrupp/homecase-accounts/internal/domain"
)

// MinUsernameLength is the shortest accepted username, in characters.
const MinUsernameLength = 3

//nolint:gochecknoglobals
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmail reports whether s has the local@domain.tld shape used to tell
// emails from usernames at login.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// RegisterRequest is the body of a registration request.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the request against the User invariants.
// Returns a *domain.ValidationError naming the first offending field.
func (r RegisterRequest) Validate() error {
	switch {
	case r.Username == "":
		return domain.NewValidationError("username", "Username is required")
	case utf8.RuneCountInString(r.Username) < MinUsernameLength:
		return domain.NewValidationError("username", "Username must be at least 3 characters")
	case strings.ContainsFunc(r.Username, unicode.IsSpace):
		return domain.NewValidationError("username", "Username cannot contain spaces")
	case r.Email == "":
		return domain.NewValidationError("email", "Email is required")
	case !IsEmail(r.Email):
		return domain.NewValidationError("email", "Invalid email address")
	}

	return validatePassword(r.Password)
}

// LoginRequest is the body of a login request.
type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

// Validate checks that both credentials are present.
func (r LoginRequest) Validate() error {
	if r.EmailOrUsername == "" {
		return domain.NewValidationError("emailOrUsername", "Email or username is required")
	}

	if r.Password == "" {
		return domain.NewValidationError("password", "Password is required")
	}

	return nil
}

func validatePassword(password string) error {
	switch {
	case password == "":
		return domain.NewValidationError("password", "Password is required")
	case len(password) > MaxPasswordBytes:
		return domain.NewValidationError("password", "Password must be at most 72 bytes")
	}

	return nil
}
