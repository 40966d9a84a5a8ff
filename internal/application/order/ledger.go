package order

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mirror"
	"github.com/xiebiao/storefront/pkg/logger"
	"github.com/xiebiao/storefront/pkg/metrics"
	"github.com/xiebiao/storefront/pkg/tracing"
)

// Ledger 订单账本
// 教学要点:
// 1. 订单只追加、不删除,最新订单在最前
// 2. 下单时对购物车做深拷贝,之后购物车和图书的修改都不影响历史订单
// 3. 状态流转规则由TransitionPolicy决定(默认宽松,可配置为单调)
type Ledger struct {
	mu     sync.Mutex
	repo   order.Repository
	policy order.TransitionPolicy
	mirror *mirror.Mirror
	logger *slog.Logger
	now    func() time.Time
}

// Option 配置项
type Option func(*Ledger)

// WithPolicy 指定状态流转策略
func WithPolicy(p order.TransitionPolicy) Option {
	return func(l *Ledger) { l.policy = p }
}

// WithClock 指定时钟(测试用)
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func NewLedger(repo order.Repository, m *mirror.Mirror, log *slog.Logger, opts ...Option) *Ledger {
	metrics.Init()

	l := &Ledger{
		repo:   repo,
		policy: order.PermissivePolicy{},
		mirror: m,
		logger: logger.Component(log, "orders"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// PlaceOrder 结账
//
// 流程:
//  1. 校验登录状态(未登录返回AuthRequired)
//  2. 校验购物车非空
//  3. 生成订单号(%03d,count+1)并深拷贝条目
//  4. 插入到订单列表最前并落盘
//  5. 成功后清空购物车
func (l *Ledger) PlaceOrder(ctx context.Context, c *cart.Cart, u *user.User) (placed order.Order, err error) {
	ctx, span := tracing.StartSpan(ctx, "order.place")
	defer func() { tracing.End(span, err) }()

	// ========================================
	// 步骤1:登录校验
	// ========================================
	if u == nil {
		metrics.OrdersFailedTotal.WithLabelValues("auth_required").Inc()
		return order.Order{}, order.ErrAuthRequired
	}
	span.SetAttributes(attribute.String("customer.id", u.ID))

	// ========================================
	// 步骤2:购物车校验
	// ========================================
	if c == nil || c.IsEmpty() {
		metrics.OrdersFailedTotal.WithLabelValues("empty_cart").Inc()
		return order.Order{}, order.ErrEmptyCart
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// ========================================
	// 步骤3:生成订单
	// ========================================
	existing, err := l.repo.List(ctx)
	if err != nil {
		metrics.OrdersFailedTotal.WithLabelValues("storage").Inc()
		return order.Order{}, err
	}
	customer := order.Customer{ID: u.ID, Name: u.Name, Email: u.Email}
	o, err := order.NewOrder(order.NextOrderNo(existing), customer, c.Items(), l.now())
	if err != nil {
		metrics.OrdersFailedTotal.WithLabelValues("invalid").Inc()
		return order.Order{}, err
	}

	// ========================================
	// 步骤4:保存
	// ========================================
	if err := l.repo.Prepend(ctx, o); err != nil {
		metrics.OrdersFailedTotal.WithLabelValues("storage").Inc()
		return order.Order{}, err
	}
	l.save(ctx)

	// ========================================
	// 步骤5:清空购物车
	// ========================================
	c.Clear()

	total, _ := o.Total.Float64()
	metrics.OrdersPlacedTotal.Inc()
	metrics.OrderAmount.Observe(total)
	span.SetAttributes(
		attribute.String("order.id", o.ID),
		attribute.Int("order.items", o.ItemCount()),
	)
	l.logger.Info("order placed",
		"order_id", o.ID,
		"customer_id", u.ID,
		"total", o.Total.StringFixed(2),
		"trace_id", tracing.TraceID(ctx),
	)
	return *o, nil
}

// SetStatus 修改订单状态
func (l *Ledger) SetStatus(ctx context.Context, id string, status order.Status) (order.Order, error) {
	target, err := order.ParseStatus(string(status))
	if err != nil {
		return order.Order{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	o, err := l.repo.FindByID(ctx, id)
	if err != nil {
		return order.Order{}, err
	}
	from := o.Status
	if err := o.TransitionTo(target, l.policy); err != nil {
		return order.Order{}, err
	}
	if err := l.repo.Update(ctx, o); err != nil {
		return order.Order{}, err
	}
	l.save(ctx)

	metrics.OrderStatusChanges.WithLabelValues(string(target)).Inc()
	l.logger.Info("order status changed", "order_id", id, "from", from, "to", target, "policy", l.policy.Name())
	return *o, nil
}

func (l *Ledger) GetOrder(ctx context.Context, id string) (order.Order, error) {
	o, err := l.repo.FindByID(ctx, id)
	if err != nil {
		return order.Order{}, err
	}
	return *o, nil
}

// ListOrders 全部订单,最新在前
func (l *Ledger) ListOrders(ctx context.Context) []order.Order {
	orders, err := l.repo.List(ctx)
	if err != nil {
		l.logger.Error("list orders failed", "error", err)
		return []order.Order{}
	}
	return orders
}

// ListByCustomer 某个用户的订单
func (l *Ledger) ListByCustomer(ctx context.Context, customerID string) []order.Order {
	return slices.DeleteFunc(l.ListOrders(ctx), func(o order.Order) bool {
		return o.CustomerID != customerID
	})
}

// Restore 用已加载的快照替换订单列表(不触发落盘)
func (l *Ledger) Restore(ctx context.Context, orders []order.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.ReplaceAll(ctx, orders)
}

func (l *Ledger) save(ctx context.Context) {
	orders, err := l.repo.List(ctx)
	if err != nil {
		l.logger.Error("snapshot skipped", "collection", mirror.Orders, "error", err)
		return
	}
	l.mirror.Save(mirror.Orders, orders)
}
