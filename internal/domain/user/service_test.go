package user

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memRepo 内存版用户仓储
type memRepo struct {
	mu     sync.Mutex
	users  map[uint]*User
	nextID uint
	err    error
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[uint]*User{}}
}

func (r *memRepo) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrEmailDuplicate
		}
	}
	r.nextID++
	u.ID = r.nextID
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id uint) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrUserNotFound
}

func (r *memRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memRepo) FindProfiles(_ context.Context, ids []uint) (map[uint]Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[uint]Profile{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u.Profile()
		}
	}
	return out, nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, bcrypt.MinCost)
}

func TestService_Register(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	u, err := svc.Register(context.Background(), "  Alice ", "  Alice@Example.COM ", "secret1")
	require.NoError(t, err)

	assert.NotZero(t, u.ID)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret1")))
}

func TestService_RegisterValidation(t *testing.T) {
	svc := newTestService(newMemRepo())

	tests := []struct {
		name, userName, email, password string
		want                            error
	}{
		{"blank name", "  ", "a@b.io", "secret1", ErrNameRequired},
		{"bad email", "A", "not-an-email", "secret1", ErrInvalidEmail},
		{"short password", "A", "a@b.io", "12345", ErrWeakPassword},
		{"long password", "A", "a@b.io", string(make([]byte, 73)), ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.userName, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestService_RegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	svc := newTestService(newMemRepo())

	_, err := svc.Register(context.Background(), "A", "dup@example.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "B", "DUP@example.com", "secret2")
	assert.ErrorIs(t, err, ErrEmailDuplicate)
}

func TestService_RegisterPropagatesStoreError(t *testing.T) {
	repo := newMemRepo()
	repo.err = errors.New("connection refused")

	_, err := newTestService(repo).Register(context.Background(), "A", "a@b.io", "secret1")
	assert.EqualError(t, err, "connection refused")
}

func TestService_Authenticate(t *testing.T) {
	svc := newTestService(newMemRepo())
	registered, err := svc.Register(context.Background(), "A", "a@b.io", "secret1")
	require.NoError(t, err)

	u, err := svc.Authenticate(context.Background(), " A@B.io", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	_, err = svc.Authenticate(context.Background(), "a@b.io", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// 未注册邮箱与错误密码返回相同错误
	_, err = svc.Authenticate(context.Background(), "nobody@b.io", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_GetByID(t *testing.T) {
	svc := newTestService(newMemRepo())

	_, err := svc.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "x@y.z", NormalizeEmail("  X@Y.Z\t"))
}
