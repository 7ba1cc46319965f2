package authsvc_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/homecase-accounts/internal/domain"
	"github.com/mkrupp/homecase-accounts/internal/svc/authsvc"
)

const seedYAML = `
users:
  - username: root
    email: root@x.com
    password: Abcdefg1
    admin: true
  - username: alice
    email: a@x.com
    password: Abcdefg1
`

func TestDecodeSeedFile(t *testing.T) {
	t.Parallel()

	seed, err := authsvc.DecodeSeedFile(strings.NewReader(seedYAML))
	require.NoError(t, err)
	require.Len(t, seed.Users, 2)
	assert.Equal(t, authsvc.SeedUser{Username: "root", Email: "root@x.com", Password: "Abcdefg1", Admin: true}, seed.Users[0])
	assert.False(t, seed.Users[1].Admin)

	empty, err := authsvc.DecodeSeedFile(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty.Users)

	_, err = authsvc.DecodeSeedFile(strings.NewReader("users:\n  - name: root\n"))
	require.Error(t, err, "unknown keys are rejected")
}

func TestLoadSeedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	seed, err := authsvc.LoadSeedFile(path)
	require.NoError(t, err)
	assert.Len(t, seed.Users, 2)

	_, err = authsvc.LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestAuthService_SeedUsers(t *testing.T) {
	t.Parallel()

	repo := newMockRepository()
	svc := newTestService(t, repo)

	seed, err := authsvc.DecodeSeedFile(strings.NewReader(seedYAML))
	require.NoError(t, err)

	created, err := svc.SeedUsers(context.Background(), seed.Users)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = svc.SeedUsers(context.Background(), seed.Users)
	require.NoError(t, err)
	assert.Zero(t, created, "seeding twice creates nothing")

	root, ok, err := repo.GetUserByUsername(context.Background(), "root")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, root.IsAdmin)
	assert.NotEqual(t, "Abcdefg1", root.PasswordHash)

	_, err = svc.SeedUsers(context.Background(), []authsvc.SeedUser{{Username: "x", Email: "x@x.com", Password: "p"}})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}
