package domain

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// RegisterResponse is returned after a user has been created.
type RegisterResponse struct {
	Message   string `json:"message"`
	Success   bool   `json:"success"`
	SavedUser *User  `json:"savedUser"`
}

// LoginResponse is returned after a successful login.
// The session token itself travels in a cookie, not in the body.
type LoginResponse struct {
	User    *User  `json:"user"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// UsersResponse carries the full user listing.
type UsersResponse struct {
	Users   []*User `json:"users"`
	Message string  `json:"message"`
	Success bool    `json:"success"`
}

// SessionResponse carries the decoded claims of the caller's session.
type SessionResponse struct {
	Session Session `json:"session"`
	Success bool    `json:"success"`
}
