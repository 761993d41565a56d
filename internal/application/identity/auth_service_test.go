package identity

import (
	"context"
	"testing"
	"time"

	"github.com/community/backend/internal/domain/identity"
	"github.com/community/backend/internal/domain/shared"
	"github.com/community/backend/internal/infrastructure/auth"
	"github.com/community/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

// memorySessions is a map-backed SessionRepository
type memorySessions struct {
	rows map[string]identity.Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{rows: make(map[string]identity.Session)}
}

func (m *memorySessions) Create(_ context.Context, s *identity.Session) error {
	m.rows[s.ID] = *s
	return nil
}

func (m *memorySessions) FindByID(_ context.Context, id string) (*identity.Session, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &s, nil
}

func (m *memorySessions) Delete(_ context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memorySessions) DeleteExpired(_ context.Context, t time.Time) (int64, error) {
	var n int64
	for id, s := range m.rows {
		if s.ExpiresAt.Before(t) {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

type authFixture struct {
	users     *MockUserRepository
	sessions  *memorySessions
	blacklist *auth.InMemoryTokenBlacklist
	svc       *AuthService
}

func newAuthFixture(allowRegistration bool) *authFixture {
	f := &authFixture{
		users:     new(MockUserRepository),
		sessions:  newMemorySessions(),
		blacklist: auth.NewInMemoryTokenBlacklist(),
	}
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Expiration: time.Hour,
		Issuer:     "test",
	})
	f.svc = NewAuthService(f.users, f.sessions, jwtService, f.blacklist,
		AuthServiceConfig{AllowRegistration: allowRegistration}, zap.NewNop())
	return f
}

func newStoredUser(t *testing.T, id int64, email, password string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(email, "Staff", password)
	require.NoError(t, err)
	user.ID = id
	return user
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled registration", func(t *testing.T) {
		f := newAuthFixture(false)
		_, err := f.svc.Register(ctx, RegisterRequest{Email: "a@example.org", DisplayName: "A", Password: "secret123"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("creates the account", func(t *testing.T) {
		f := newAuthFixture(true)
		f.users.On("Create", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return u.Email == "a@example.org" && u.PasswordHash != "secret123"
		})).Return(nil).Run(func(args mock.Arguments) {
			args.Get(1).(*identity.User).ID = 3
		})

		resp, err := f.svc.Register(ctx, RegisterRequest{Email: " A@Example.org ", DisplayName: "A", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.ID)
		assert.Equal(t, "a@example.org", resp.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAuthFixture(true)
		f.users.On("Create", ctx, mock.Anything).Return(shared.ErrAlreadyExists)

		_, err := f.svc.Register(ctx, RegisterRequest{Email: "a@example.org", DisplayName: "A", Password: "secret123"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestAuthService_LoginAuthenticateLogout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(false)
	user := newStoredUser(t, 5, "staff@example.org", "secret123")
	f.users.On("FindByEmail", mock.Anything, "staff@example.org").Return(user, nil)

	result, err := f.svc.Login(ctx, LoginInput{Email: "Staff@Example.org", Password: "secret123", UserAgent: "test", ClientIP: "10.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, int64(5), result.User.ID)
	require.Len(t, f.sessions.rows, 1)

	principal, err := f.svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(5), principal.UserID)
	assert.Equal(t, "staff@example.org", principal.Email)

	require.NoError(t, f.svc.Logout(ctx, principal))
	assert.Empty(t, f.sessions.rows)

	revoked, err := f.blacklist.IsBlacklisted(ctx, principal.SessionID)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = f.svc.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	// a second logout is harmless
	assert.NoError(t, f.svc.Logout(ctx, principal))
	f.users.AssertExpectations(t)
}

func TestAuthService_Login_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture(false)
		f.users.On("FindByEmail", mock.Anything, "nobody@example.org").Return(nil, shared.ErrNotFound)

		_, err := f.svc.Login(ctx, LoginInput{Email: "nobody@example.org", Password: "secret123"})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("wrong password opens no session", func(t *testing.T) {
		f := newAuthFixture(false)
		f.users.On("FindByEmail", mock.Anything, "staff@example.org").Return(newStoredUser(t, 5, "staff@example.org", "secret123"), nil)

		_, err := f.svc.Login(ctx, LoginInput{Email: "staff@example.org", Password: "wrong1234"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Empty(t, f.sessions.rows)
	})
}

func TestAuthService_Authenticate_Rejects(t *testing.T) {
	ctx := context.Background()

	t.Run("garbage token", func(t *testing.T) {
		_, err := newAuthFixture(false).svc.Authenticate(ctx, "garbage")
		assert.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("session row removed", func(t *testing.T) {
		f := newAuthFixture(false)
		f.users.On("FindByEmail", mock.Anything, "staff@example.org").Return(newStoredUser(t, 5, "staff@example.org", "secret123"), nil)
		result, err := f.svc.Login(ctx, LoginInput{Email: "staff@example.org", Password: "secret123"})
		require.NoError(t, err)

		for id := range f.sessions.rows {
			delete(f.sessions.rows, id)
		}
		_, err = f.svc.Authenticate(ctx, result.Token)
		assert.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("session expired", func(t *testing.T) {
		f := newAuthFixture(false)
		f.users.On("FindByEmail", mock.Anything, "staff@example.org").Return(newStoredUser(t, 5, "staff@example.org", "secret123"), nil)
		result, err := f.svc.Login(ctx, LoginInput{Email: "staff@example.org", Password: "secret123"})
		require.NoError(t, err)

		f.svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err = f.svc.Authenticate(ctx, result.Token)
		assert.ErrorIs(t, err, ErrSessionInvalid)
	})
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates when missing", func(t *testing.T) {
		f := newAuthFixture(false)
		f.users.On("FindByEmail", mock.Anything, "admin@example.org").Return(nil, shared.ErrNotFound)
		f.users.On("Create", ctx, mock.Anything).Return(nil)

		created, err := f.svc.EnsureAdmin(ctx, "admin@example.org", "admin12345")
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("keeps an existing account", func(t *testing.T) {
		f := newAuthFixture(false)
		f.users.On("FindByEmail", mock.Anything, "admin@example.org").Return(newStoredUser(t, 1, "admin@example.org", "admin12345"), nil)

		created, err := f.svc.EnsureAdmin(ctx, "admin@example.org", "admin12345")
		require.NoError(t, err)
		assert.False(t, created)
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_PurgeExpiredSessions(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(false)
	require.NoError(t, f.sessions.Create(ctx, identity.NewSession(1, -time.Minute, "", "")))
	require.NoError(t, f.sessions.Create(ctx, identity.NewSession(1, time.Hour, "", "")))

	n, err := f.svc.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Len(t, f.sessions.rows, 1)
}
