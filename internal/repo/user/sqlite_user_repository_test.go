package user_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mkrupp/homecase-accounts/internal/domain"
	"github.com/mkrupp/homecase-accounts/internal/repo/user"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

func setupSQLiteTestRepo(t *testing.T) *user.SQLiteUserRepository {
	t.Helper()

	repo, err := user.NewSQLiteUserRepository(context.Background(), user.SQLiteUserRepositoryConfig{
		DatabasePath: filepath.Join(t.TempDir(), "accounts.db"),
	})
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, repo.Close()) })

	return repo
}

func newUser(n int, username, email string) *domain.User {
	return &domain.User{
		ID:           fmt.Sprintf("0190c1b2-0000-7000-8000-%012d", n),
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Date(2024, 5, 1, 12, 0, n, 0, time.UTC),
	}
}

func TestSQLiteUserRepository_CreateAndGet(t *testing.T) {
	t.Parallel()

	repo := setupSQLiteTestRepo(t)
	ctx := context.Background()

	alice := newUser(1, "alice", "a@x.com")
	alice.IsAdmin = true
	require.NoError(t, repo.CreateUser(ctx, alice))

	got, ok, err := repo.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, alice, got)

	got, ok, err = repo.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, alice.ID, got.ID)

	got, ok, err = repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, alice.ID, got.ID)

	got, ok, err = repo.GetUserByUsername(ctx, "Alice")
	require.NoError(t, err)
	assert.False(t, ok, "usernames are case sensitive")
	assert.Nil(t, got)

	_, ok, err = repo.GetUserByEmail(ctx, "missing@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteUserRepository_CreateUser_Duplicates(t *testing.T) {
	t.Parallel()

	repo := setupSQLiteTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, newUser(1, "alice", "a@x.com")))

	tests := []struct {
		name    string
		user    *domain.User
		wantErr error
	}{
		{name: "email", user: newUser(2, "bob", "a@x.com"), wantErr: domain.ErrEmailAlreadyExists},
		{name: "username", user: newUser(3, "alice", "b@x.com"), wantErr: domain.ErrUsernameAlreadyExists},
		{name: "id", user: newUser(1, "carol", "c@x.com"), wantErr: domain.ErrUserAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.CreateUser(ctx, tt.user)
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, domain.ErrUserAlreadyExists)
		})
	}

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestSQLiteUserRepository_FindUserByEmailOrUsername(t *testing.T) {
	t.Parallel()

	repo := setupSQLiteTestRepo(t)
	ctx := context.Background()

	alice := newUser(1, "alice", "a@x.com")
	bob := newUser(2, "bob", "b@x.com")
	require.NoError(t, repo.CreateUser(ctx, alice))
	require.NoError(t, repo.CreateUser(ctx, bob))

	tests := []struct {
		name     string
		email    string
		username string
		wantID   string
	}{
		{name: "email match", email: "a@x.com", username: "nobody", wantID: alice.ID},
		{name: "username match", email: "z@x.com", username: "bob", wantID: bob.ID},
		{name: "email match preferred", email: "b@x.com", username: "alice", wantID: bob.ID},
		{name: "no match", email: "z@x.com", username: "nobody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok, err := repo.FindUserByEmailOrUsername(ctx, tt.email, tt.username)
			require.NoError(t, err)

			if tt.wantID == "" {
				assert.False(t, ok)

				return
			}

			require.True(t, ok)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestSQLiteUserRepository_ListUsers(t *testing.T) {
	t.Parallel()

	repo := setupSQLiteTestRepo(t)
	ctx := context.Background()

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			assert.NoError(t, repo.CreateUser(ctx, newUser(i, fmt.Sprintf("user%d", i), fmt.Sprintf("u%d@x.com", i))))
		}()
	}

	wg.Wait()

	users, err = repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 10)

	for i, u := range users {
		assert.Equal(t, fmt.Sprintf("user%d", i), u.Username, "ordered by creation time")
	}
}

func TestSQLiteUserRepository_Reopen(t *testing.T) {
	t.Parallel()

	cfg := user.SQLiteUserRepositoryConfig{DatabasePath: filepath.Join(t.TempDir(), "accounts.db")}
	ctx := context.Background()

	repo, err := user.NewSQLiteUserRepository(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, repo.CreateUser(ctx, newUser(1, "alice", "a@x.com")))
	require.NoError(t, repo.Close())

	repo, err = user.NewSQLiteUserRepository(ctx, cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, repo.Close()) })

	_, ok, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewRepositoryFactory(t *testing.T) {
	t.Parallel()

	for _, driver := range []string{"", user.DriverSQLite, user.DriverPostgres} {
		factory, err := user.NewRepositoryFactory(user.RepositoryConfig{Driver: driver})
		require.NoError(t, err, driver)
		assert.NotNil(t, factory)
	}

	_, err := user.NewRepositoryFactory(user.RepositoryConfig{Driver: "mongodb"})
	require.ErrorIs(t, err, user.ErrUnknownDriver)
}
