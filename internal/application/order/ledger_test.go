package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/domain/book"
	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mirror"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/logger"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newLedger(t *testing.T, opts ...Option) (*Ledger, *mirror.Mirror, *mirror.MemoryStore) {
	t.Helper()
	backend := mirror.NewMemoryStore()
	m := mirror.New(backend, mirror.Options{Logger: logger.Discard()})
	t.Cleanup(func() { _ = m.Close(context.Background()) })

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewLedger(memory.NewOrderRepository(), m, logger.Discard(), opts...), m, backend
}

func testBook(id, price string) book.Book {
	return book.Book{
		ID:       id,
		Title:    "Book " + id,
		Author:   "Author",
		Price:    decimal.RequireFromString(price),
		Category: "Fiction",
		InStock:  true,
	}
}

func customer() *user.User {
	return &user.User{ID: "2", Email: "user@example.com", Name: "Demo User", Role: user.RoleUser}
}

func filledCart(t *testing.T) *cart.Cart {
	t.Helper()
	c := cart.New()
	require.NoError(t, c.AddItem(testBook("1", "24.99"), 1))
	require.NoError(t, c.AddItem(testBook("2", "20.99"), 1))
	return c
}

func TestLedger_PlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("未登录不能下单", func(t *testing.T) {
		l, _, _ := newLedger(t)
		c := filledCart(t)

		_, err := l.PlaceOrder(ctx, c, nil)
		assert.True(t, apperrors.IsAuthRequired(err))
		assert.False(t, c.IsEmpty(), "失败时购物车保持不变")
	})

	t.Run("空购物车", func(t *testing.T) {
		l, _, _ := newLedger(t)
		_, err := l.PlaceOrder(ctx, cart.New(), customer())
		assert.True(t, apperrors.IsValidation(err))
		assert.ErrorIs(t, err, order.ErrEmptyCart)
	})

	t.Run("两件商品共45.98", func(t *testing.T) {
		l, m, backend := newLedger(t)
		c := filledCart(t)

		o, err := l.PlaceOrder(ctx, c, customer())
		require.NoError(t, err)
		assert.Equal(t, "001", o.ID)
		assert.Equal(t, order.StatusPending, o.Status)
		assert.Equal(t, "45.98", o.Total.StringFixed(2))
		assert.Equal(t, "Demo User", o.CustomerName)
		assert.Equal(t, fixedNow, o.CreatedAt)
		assert.Len(t, o.Items, 2)
		assert.True(t, c.IsEmpty(), "下单成功后清空购物车")

		require.NoError(t, m.Flush().Wait(ctx))
		_, err = backend.Get(ctx, m.Key(mirror.Orders))
		assert.NoError(t, err)
	})

	t.Run("最新订单在前,订单号递增", func(t *testing.T) {
		l, _, _ := newLedger(t)
		first, err := l.PlaceOrder(ctx, filledCart(t), customer())
		require.NoError(t, err)
		second, err := l.PlaceOrder(ctx, filledCart(t), customer())
		require.NoError(t, err)

		assert.Equal(t, "002", second.ID)
		orders := l.ListOrders(ctx)
		require.Len(t, orders, 2)
		assert.Equal(t, second.ID, orders[0].ID)
		assert.Equal(t, first.ID, orders[1].ID)
	})

	t.Run("订单条目与购物车解耦", func(t *testing.T) {
		l, _, _ := newLedger(t)
		c := filledCart(t)
		o, err := l.PlaceOrder(ctx, c, customer())
		require.NoError(t, err)

		require.NoError(t, c.AddItem(testBook("9", "1.00"), 5))
		got, err := l.GetOrder(ctx, o.ID)
		require.NoError(t, err)
		assert.Len(t, got.Items, 2)
	})
}

func TestLedger_SetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("不存在的订单", func(t *testing.T) {
		l, _, _ := newLedger(t)
		_, err := l.SetStatus(ctx, "999", order.StatusDelivered)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("修改后列表立即可见", func(t *testing.T) {
		l, _, _ := newLedger(t)
		o, err := l.PlaceOrder(ctx, filledCart(t), customer())
		require.NoError(t, err)

		_, err = l.SetStatus(ctx, o.ID, order.StatusDelivered)
		require.NoError(t, err)
		assert.Equal(t, order.StatusDelivered, l.ListOrders(ctx)[0].Status)
	})

	t.Run("未知状态", func(t *testing.T) {
		l, _, _ := newLedger(t)
		o, err := l.PlaceOrder(ctx, filledCart(t), customer())
		require.NoError(t, err)

		_, err = l.SetStatus(ctx, o.ID, order.Status("lost"))
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("默认策略允许任意切换", func(t *testing.T) {
		l, _, _ := newLedger(t)
		o, err := l.PlaceOrder(ctx, filledCart(t), customer())
		require.NoError(t, err)

		_, err = l.SetStatus(ctx, o.ID, order.StatusDelivered)
		require.NoError(t, err)
		_, err = l.SetStatus(ctx, o.ID, order.StatusPending)
		assert.NoError(t, err)
	})

	t.Run("单调策略拒绝回退", func(t *testing.T) {
		l, _, _ := newLedger(t, WithPolicy(order.MonotonicPolicy{}))
		o, err := l.PlaceOrder(ctx, filledCart(t), customer())
		require.NoError(t, err)

		_, err = l.SetStatus(ctx, o.ID, order.StatusProcessing)
		require.NoError(t, err)
		_, err = l.SetStatus(ctx, o.ID, order.StatusPending)
		assert.True(t, apperrors.IsValidation(err))

		got, err := l.GetOrder(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusProcessing, got.Status)
	})
}

func TestLedger_ListByCustomer(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newLedger(t)

	_, err := l.PlaceOrder(ctx, filledCart(t), customer())
	require.NoError(t, err)
	other := &user.User{ID: "1", Email: "admin@example.com", Name: "Admin", Role: user.RoleAdmin}
	_, err = l.PlaceOrder(ctx, filledCart(t), other)
	require.NoError(t, err)

	mine := l.ListByCustomer(ctx, "2")
	require.Len(t, mine, 1)
	assert.Equal(t, "001", mine[0].ID)
	assert.Len(t, l.ListOrders(ctx), 2)
}
