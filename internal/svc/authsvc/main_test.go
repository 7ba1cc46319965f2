package authsvc_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkrupp/homecase-accounts/internal/domain"
	"github.com/mkrupp/homecase-accounts/internal/infra/logging"
	"github.com/mkrupp/homecase-accounts/internal/repo/user"
	"github.com/mkrupp/homecase-accounts/internal/svc/authsvc"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

const testSecret = "test-secret"

type mockRepository struct {
	m       sync.Mutex
	users   map[string]*domain.User
	seq     int
	order   map[string]int
	findErr error
	saveErr error
	listErr error
	closed  bool
}

var _ user.Repository = (*mockRepository)(nil)

func newMockRepository() *mockRepository {
	return &mockRepository{
		users: make(map[string]*domain.User),
		order: make(map[string]int),
	}
}

func (r *mockRepository) CreateUser(_ context.Context, u *domain.User) error {
	if r.saveErr != nil {
		return r.saveErr
	}

	r.m.Lock()
	defer r.m.Unlock()

	for _, existing := range r.users {
		switch {
		case existing.Email == u.Email:
			return domain.ErrEmailAlreadyExists
		case existing.Username == u.Username:
			return domain.ErrUsernameAlreadyExists
		}
	}

	stored := *u
	r.users[u.ID] = &stored
	r.seq++
	r.order[u.ID] = r.seq

	return nil
}

func (r *mockRepository) find(match func(*domain.User) bool) (*domain.User, bool, error) {
	if r.findErr != nil {
		return nil, false, r.findErr
	}

	r.m.Lock()
	defer r.m.Unlock()

	for _, u := range r.users {
		if match(u) {
			found := *u

			return &found, true, nil
		}
	}

	return nil, false, nil
}

func (r *mockRepository) FindUserByEmailOrUsername(_ context.Context, email, username string) (*domain.User, bool, error) {
	if u, ok, err := r.find(func(u *domain.User) bool { return u.Email == email }); ok || err != nil {
		return u, ok, err
	}

	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *mockRepository) GetUserByEmail(_ context.Context, email string) (*domain.User, bool, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *mockRepository) GetUserByUsername(_ context.Context, username string) (*domain.User, bool, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *mockRepository) GetUserByID(_ context.Context, id string) (*domain.User, bool, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *mockRepository) ListUsers(_ context.Context) ([]*domain.User, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}

	r.m.Lock()
	defer r.m.Unlock()

	users := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		found := *u
		users = append(users, &found)
	}

	sort.Slice(users, func(i, j int) bool { return r.order[users[i].ID] < r.order[users[j].ID] })

	return users, nil
}

func (r *mockRepository) Close() error {
	r.closed = true

	return nil
}

func newTestService(t *testing.T, repo user.Repository) *authsvc.AuthService {
	t.Helper()

	return &authsvc.AuthService{
		Config:   authsvc.AuthConfig{TokenSecret: testSecret, TokenDuration: time.Hour, BcryptCost: bcrypt.MinCost},
		UserRepo: repo,
		Hasher:   authsvc.NewBcryptHasher(bcrypt.MinCost),
		Tokens:   authsvc.NewTokenIssuer(testSecret, time.Hour),
		Metrics:  authsvc.NewAuthMetrics(nil),
		Log:      logging.NewNopLogger(),
	}
}
