package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUserAlreadyExists is the common kind of both duplicate errors below.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrEmailAlreadyExists is returned when registering an email that is already taken.
	ErrEmailAlreadyExists = fmt.Errorf("%w: email", ErrUserAlreadyExists)
	// ErrUsernameAlreadyExists is returned when registering a username that is already taken.
	ErrUsernameAlreadyExists = fmt.Errorf("%w: username", ErrUserAlreadyExists)
	// ErrUserNotFound is returned when looking up a non-existent user.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoUsersFound is returned when listing an empty user store.
	ErrNoUsersFound = errors.New("no users found")
	// ErrInvalidCredentials is returned when the password does not match the stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password"` // bcrypt hash, never plaintext
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DuplicateField names the unique field an ErrUserAlreadyExists error collided on.
// Returns an empty string for errors of any other kind.
func DuplicateField(err error) string {
	switch {
	case errors.Is(err, ErrEmailAlreadyExists):
		return "email"
	case errors.Is(err, ErrUsernameAlreadyExists):
		return "username"
	default:
		return ""
	}
}
