package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mirror"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/jwt"
	"github.com/xiebiao/storefront/pkg/logger"
	"github.com/xiebiao/storefront/pkg/metrics"
)

// Session 当前登录会话
type Session struct {
	User      user.User `json:"user"`
	Token     string    `json:"token"`
	SessionID string    `json:"sessionId"`
	StartedAt time.Time `json:"startedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Gate 认证门禁
// 设计说明：
// 1. 店面同一时刻只有一个会话(匿名 / 已登录)
// 2. 登录、注册成功后签发JWT，HTTP层凭Token证明自己持有当前会话
// 3. 登出或被新登录顶替的会话进入黑名单，旧Token立即失效
// 4. 登出时执行注册的回调(清空购物车)
type Gate struct {
	mu       sync.RWMutex
	users    user.Service
	repo     user.Repository
	tokens   *jwt.Manager
	revoker  Revoker
	mirror   *mirror.Mirror
	onLogout []func()
	logger   *slog.Logger
	now      func() time.Time

	current *Session
}

// Option 配置项
type Option func(*Gate)

// WithRevoker 替换默认的进程内黑名单
func WithRevoker(r Revoker) Option {
	return func(g *Gate) { g.revoker = r }
}

// WithLogoutHook 登出时执行(如清空购物车)
func WithLogoutHook(fn func()) Option {
	return func(g *Gate) { g.onLogout = append(g.onLogout, fn) }
}

func NewGate(users user.Service, repo user.Repository, tokens *jwt.Manager, m *mirror.Mirror, log *slog.Logger, opts ...Option) *Gate {
	metrics.Init()

	g := &Gate{
		users:   users,
		repo:    repo,
		tokens:  tokens,
		revoker: NewMemoryRevoker(),
		mirror:  m,
		logger:  logger.Component(log, "session"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Login 邮箱精确匹配 + 密码校验
func (g *Gate) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := g.users.Login(ctx, email, password)
	if err != nil {
		metrics.SessionEventsTotal.WithLabelValues("login_failed").Inc()
		g.logger.Info("login failed", "email", email)
		return nil, err
	}

	s, err := g.start(ctx, u)
	if err != nil {
		return nil, err
	}
	metrics.SessionEventsTotal.WithLabelValues("login").Inc()
	return s, nil
}

// Register 注册普通用户并立即登录
func (g *Gate) Register(ctx context.Context, email, password, name string) (*Session, error) {
	u, err := g.users.Register(ctx, email, password, name)
	if err != nil {
		return nil, err
	}
	g.saveUsers(ctx)

	s, err := g.start(ctx, u)
	if err != nil {
		return nil, err
	}
	metrics.SessionEventsTotal.WithLabelValues("register").Inc()
	g.logger.Info("user registered", "user_id", u.ID)
	return s, nil
}

// Logout 结束会话并执行登出回调;未登录时无操作
func (g *Gate) Logout(ctx context.Context) error {
	g.mu.Lock()
	s := g.current
	g.current = nil
	g.mu.Unlock()

	if s == nil {
		return nil
	}
	for _, fn := range g.onLogout {
		fn()
	}
	metrics.SessionEventsTotal.WithLabelValues("logout").Inc()
	g.logger.Info("logged out", "user_id", s.User.ID)
	return g.revoke(ctx, s)
}

// Current 当前会话的副本
func (g *Gate) Current() (*Session, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.current == nil {
		return nil, false
	}
	cp := *g.current
	return &cp, true
}

func (g *Gate) CurrentUser() (*user.User, bool) {
	s, ok := g.Current()
	if !ok {
		return nil, false
	}
	return &s.User, true
}

func (g *Gate) IsAdmin() bool {
	u, ok := g.CurrentUser()
	return ok && u.IsAdmin()
}

// Authenticate 校验Token是否对应当前会话
// 学习要点：签名有效还不够，会话ID必须与当前会话一致且未被吊销
func (g *Gate) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims, err := g.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := g.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.ErrInvalidToken
	}

	s, ok := g.Current()
	if !ok || s.SessionID != claims.ID {
		return nil, apperrors.ErrUnauthorized
	}
	return s, nil
}

// Restore 用已加载的快照替换用户列表(不触发落盘)
func (g *Gate) Restore(ctx context.Context, users []user.User) error {
	return g.repo.ReplaceAll(ctx, users)
}

// start 签发Token并替换当前会话
func (g *Gate) start(ctx context.Context, u *user.User) (*Session, error) {
	tok, err := g.tokens.Issue(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, err
	}
	s := &Session{
		User:      *u,
		Token:     tok.Value,
		SessionID: tok.SessionID,
		StartedAt: g.now().UTC(),
		ExpiresAt: tok.ExpiresAt,
	}

	g.mu.Lock()
	prev := g.current
	g.current = s
	g.mu.Unlock()

	if prev != nil {
		if err := g.revoke(ctx, prev); err != nil {
			g.logger.Warn("revoke previous session failed", "session_id", prev.SessionID, "error", err)
		}
	}

	cp := *s
	return &cp, nil
}

func (g *Gate) revoke(ctx context.Context, s *Session) error {
	return g.revoker.Revoke(ctx, s.SessionID, s.ExpiresAt.Sub(g.now()))
}

func (g *Gate) saveUsers(ctx context.Context) {
	users, err := g.repo.List(ctx)
	if err != nil {
		g.logger.Error("snapshot skipped", "collection", mirror.Users, "error", err)
		return
	}
	g.mirror.Save(mirror.Users, users)
}
