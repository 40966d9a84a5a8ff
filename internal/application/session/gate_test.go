package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mirror"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/seed"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/jwt"
	"github.com/xiebiao/storefront/pkg/logger"
)

const (
	adminEmail    = "marawan.attallah@ejust.edu.eg"
	adminPassword = "123456789"
)

func newGate(t *testing.T, opts ...Option) (*Gate, *mirror.Mirror, *mirror.MemoryStore) {
	t.Helper()
	hasher := user.NewBcryptHasher(bcrypt.MinCost)
	users, err := seed.Users(hasher)
	require.NoError(t, err)

	repo := memory.NewUserRepository()
	require.NoError(t, repo.ReplaceAll(context.Background(), users))

	backend := mirror.NewMemoryStore()
	m := mirror.New(backend, mirror.Options{Logger: logger.Discard()})
	t.Cleanup(func() { _ = m.Close(context.Background()) })

	tokens := jwt.NewManager("test-secret", "storefront-test", time.Hour)
	g := NewGate(user.NewService(repo, hasher), repo, tokens, m, logger.Discard(), opts...)
	return g, m, backend
}

func TestGate_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("管理员登录", func(t *testing.T) {
		g, _, _ := newGate(t)
		s, err := g.Login(ctx, adminEmail, adminPassword)
		require.NoError(t, err)
		assert.Equal(t, user.RoleAdmin, s.User.Role)
		assert.NotEmpty(t, s.Token)
		assert.True(t, g.IsAdmin())

		u, ok := g.CurrentUser()
		require.True(t, ok)
		assert.Equal(t, "Marawan Attallah", u.Name)
	})

	t.Run("错误凭证", func(t *testing.T) {
		g, _, _ := newGate(t)
		_, err := g.Login(ctx, "x@x.com", "wrong")
		assert.True(t, apperrors.IsInvalidCredentials(err))

		_, err = g.Login(ctx, adminEmail, "wrong")
		assert.True(t, apperrors.IsInvalidCredentials(err))

		_, ok := g.CurrentUser()
		assert.False(t, ok)
	})

	t.Run("邮箱大小写必须精确匹配", func(t *testing.T) {
		g, _, _ := newGate(t)
		_, err := g.Login(ctx, "MARAWAN.ATTALLAH@ejust.edu.eg", adminPassword)
		assert.True(t, apperrors.IsInvalidCredentials(err))
	})
}

func TestGate_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("注册后立即登录为普通用户", func(t *testing.T) {
		g, m, backend := newGate(t)
		s, err := g.Register(ctx, "new@example.com", "secret1", "New Reader")
		require.NoError(t, err)
		assert.Equal(t, user.RoleUser, s.User.Role)
		assert.Equal(t, "3", s.User.ID)
		assert.False(t, g.IsAdmin())

		require.NoError(t, m.Flush().Wait(ctx))
		_, err = backend.Get(ctx, m.Key(mirror.Users))
		assert.NoError(t, err)
	})

	t.Run("邮箱重复(不区分大小写)", func(t *testing.T) {
		g, _, _ := newGate(t)
		_, err := g.Register(ctx, "MARAWAN.ATTALLAH@EJUST.EDU.EG", "secret1", "Dup")
		assert.True(t, apperrors.IsDuplicate(err))
	})

	t.Run("参数校验", func(t *testing.T) {
		g, _, _ := newGate(t)
		_, err := g.Register(ctx, "not-an-email", "secret1", "X")
		assert.True(t, apperrors.IsValidation(err))
		_, err = g.Register(ctx, "a@b.co", "123", "X")
		assert.True(t, apperrors.IsValidation(err))
		_, err = g.Register(ctx, "a@b.co", "secret1", " ")
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestGate_Logout(t *testing.T) {
	ctx := context.Background()
	cleared := 0
	g, _, _ := newGate(t, WithLogoutHook(func() { cleared++ }))

	s, err := g.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)

	require.NoError(t, g.Logout(ctx))
	assert.Equal(t, 1, cleared)
	_, ok := g.CurrentUser()
	assert.False(t, ok)

	_, err = g.Authenticate(ctx, s.Token)
	assert.True(t, apperrors.IsAuthRequired(err), "登出后旧Token失效")

	require.NoError(t, g.Logout(ctx), "未登录时登出无操作")
	assert.Equal(t, 1, cleared)
}

func TestGate_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("当前会话的Token", func(t *testing.T) {
		g, _, _ := newGate(t)
		s, err := g.Login(ctx, adminEmail, adminPassword)
		require.NoError(t, err)

		got, err := g.Authenticate(ctx, s.Token)
		require.NoError(t, err)
		assert.Equal(t, s.SessionID, got.SessionID)
	})

	t.Run("被新登录顶替的Token", func(t *testing.T) {
		g, _, _ := newGate(t)
		first, err := g.Login(ctx, adminEmail, adminPassword)
		require.NoError(t, err)
		_, err = g.Login(ctx, "Marawanatya0112@gmail.com", "987654321")
		require.NoError(t, err)

		_, err = g.Authenticate(ctx, first.Token)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("伪造的Token", func(t *testing.T) {
		g, _, _ := newGate(t)
		_, err := g.Authenticate(ctx, "not.a.jwt")
		assert.True(t, apperrors.IsAuthRequired(err))
	})
}

func TestMemoryRevoker(t *testing.T) {
	r := NewMemoryRevoker()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "sid", time.Minute))
	revoked, err := r.IsRevoked(ctx, "sid")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = r.IsRevoked(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, revoked, "过期后自动清理")

	require.NoError(t, r.Revoke(ctx, "expired", 0))
	revoked, _ = r.IsRevoked(ctx, "expired")
	assert.False(t, revoked)
}
