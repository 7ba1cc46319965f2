package authsvc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mkrupp/homecase-accounts/internal/domain"
	"github.com/mkrupp/homecase-accounts/internal/infra/logging"
)

// SeedUser is one account entry of a seed file.
type SeedUser struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Admin    bool   `yaml:"admin"`
}

// SeedFile lists accounts to create, e.g.
//
//	users:
//	  - username: admin
//	    email: admin@example.com
//	    password: change-me
//	    admin: true
type SeedFile struct {
	Users []SeedUser `yaml:"users"`
}

// DecodeSeedFile parses a YAML seed file. Unknown keys are rejected.
func DecodeSeedFile(r io.Reader) (*SeedFile, error) {
	var seed SeedFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	return &seed, nil
}

// LoadSeedFile reads and parses the YAML seed file at path.
func LoadSeedFile(path string) (*SeedFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer file.Close()

	return DecodeSeedFile(file)
}

// SeedUsers creates the given accounts, keeping their admin flag.
// Accounts whose email or username already exists are skipped, so seeding is idempotent.
// Returns the number of accounts created.
func (s *AuthService) SeedUsers(ctx context.Context, seeds []SeedUser) (created int, err error) {
	log := s.Log.With("seed", len(seeds))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "seed users failed", "error", err, "created", created)
		} else {
			log.InfoContext(ctx, "users seeded", "created", created)
		}
	}()

	for i, seed := range seeds {
		req := RegisterRequest{Username: seed.Username, Email: seed.Email, Password: seed.Password}

		if err := req.Validate(); err != nil {
			return created, fmt.Errorf("seed user %d: %w", i, err)
		}

		if _, err := s.createUser(ctx, req, seed.Admin); err != nil {
			if errors.Is(err, domain.ErrUserAlreadyExists) {
				log.DebugContext(ctx, "seed user exists", logging.Group("user", "username", seed.Username))

				continue
			}

			return created, fmt.Errorf("seed user %d: %w", i, err)
		}

		created++
	}

	return created, nil
}
