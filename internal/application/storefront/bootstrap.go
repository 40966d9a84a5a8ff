package storefront

import (
	"context"
	"log/slog"

	"github.com/xiebiao/storefront/internal/application/catalog"
	"github.com/xiebiao/storefront/internal/application/notify"
	orderapp "github.com/xiebiao/storefront/internal/application/order"
	"github.com/xiebiao/storefront/internal/application/session"
	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mirror"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/seed"
	"github.com/xiebiao/storefront/pkg/jwt"
)

// Config 业务开关
type Config struct {
	StrictStock       bool
	StrictTransitions bool
	FeaturedCount     int
	RelatedCount      int
	NoticeHistory     int
}

// Deps 外部依赖
type Deps struct {
	Mirror    *mirror.Mirror
	Hasher    user.PasswordHasher
	Tokens    *jwt.Manager
	Revoker   session.Revoker   // 可选,默认进程内黑名单
	Notifiers []notify.Notifier // 额外的通知出口(如消息队列)
	Logger    *slog.Logger
}

// Bootstrap 加载四个集合并组装店面
//
// 启动流程:
//  1. 从mirror读取books/categories/users/orders快照
//  2. 快照缺失或为空时使用内置种子数据,并把种子写回存储
//  3. 组装各个应用服务并灌入快照
func Bootstrap(ctx context.Context, cfg Config, deps Deps) (*Storefront, error) {
	// 1. 加载快照(带种子回退)
	books, err := mirror.Load(ctx, deps.Mirror, mirror.Books, seed.Books)
	if err != nil {
		return nil, err
	}
	categories, err := mirror.Load(ctx, deps.Mirror, mirror.Categories, seed.Categories)
	if err != nil {
		return nil, err
	}
	users, err := mirror.Load(ctx, deps.Mirror, mirror.Users, func() ([]user.User, error) {
		return seed.Users(deps.Hasher)
	})
	if err != nil {
		return nil, err
	}
	orders, err := mirror.Load(ctx, deps.Mirror, mirror.Orders, seed.Orders)
	if err != nil {
		return nil, err
	}

	// 2. 组装
	var cartOpts []cart.Option
	if cfg.StrictStock {
		cartOpts = append(cartOpts, cart.WithStrictStock())
	}
	c := cart.New(cartOpts...)

	gateOpts := []session.Option{session.WithLogoutHook(c.Clear)}
	if deps.Revoker != nil {
		gateOpts = append(gateOpts, session.WithRevoker(deps.Revoker))
	}

	userRepo := memory.NewUserRepository()
	cat := catalog.NewStore(memory.NewBookRepository(), memory.NewCategoryRepository(), deps.Mirror, deps.Logger)
	ledger := orderapp.NewLedger(memory.NewOrderRepository(), deps.Mirror, deps.Logger,
		orderapp.WithPolicy(order.PolicyFor(cfg.StrictTransitions)))
	gate := session.NewGate(user.NewService(userRepo, deps.Hasher), userRepo, deps.Tokens, deps.Mirror, deps.Logger, gateOpts...)

	// 3. 灌入快照
	if err := cat.Restore(ctx, books, categories); err != nil {
		return nil, err
	}
	if err := ledger.Restore(ctx, orders); err != nil {
		return nil, err
	}
	if err := gate.Restore(ctx, users); err != nil {
		return nil, err
	}

	recorder := notify.NewRecorder(cfg.NoticeHistory)
	notifier := notify.Multi{recorder, notify.NewLogNotifier(deps.Logger)}
	notifier = append(notifier, deps.Notifiers...)

	sf := New(cat, ledger, gate, c, recorder, notifier,
		Options{FeaturedCount: cfg.FeaturedCount, RelatedCount: cfg.RelatedCount},
		deps.Logger,
	)

	sf.logger.Info("storefront ready",
		"books", len(books),
		"categories", len(categories),
		"users", len(users),
		"orders", len(orders),
	)
	return sf, nil
}
