package authsvc

import "time"

// AuthConfig contains configuration parameters for the authentication service.
type AuthConfig struct {
	// TokenSecret is the HMAC key session tokens are signed with.
	// Logins fail with domain.ErrNoSigningSecret while it is empty.
	TokenSecret string `env:"TOKEN_SECRET" default:""`

	// TokenDuration is the validity window of issued session tokens
	TokenDuration time.Duration `env:"TOKEN_DURATION" default:"24h"`

	// BcryptCost is the bcrypt work factor for new password hashes
	BcryptCost int `env:"BCRYPT_COST" default:"10"`

	// SeedFile optionally names a YAML file of users to create at startup
	SeedFile string `env:"SEED_FILE" default:""`
}
