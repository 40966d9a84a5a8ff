package storefront

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/storefront/internal/application/notify"
	"github.com/xiebiao/storefront/internal/domain/book"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mirror"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/jwt"
	"github.com/xiebiao/storefront/pkg/logger"
)

const (
	adminEmail    = "marawan.attallah@ejust.edu.eg"
	adminPassword = "123456789"
)

type harness struct {
	sf      *Storefront
	mirror  *mirror.Mirror
	backend *mirror.MemoryStore
}

func newHarness(t *testing.T, cfg Config, backend *mirror.MemoryStore) harness {
	t.Helper()
	if backend == nil {
		backend = mirror.NewMemoryStore()
	}
	m := mirror.New(backend, mirror.Options{Logger: logger.Discard()})
	t.Cleanup(func() { _ = m.Close(context.Background()) })

	sf, err := Bootstrap(context.Background(), cfg, Deps{
		Mirror: m,
		Hasher: user.NewBcryptHasher(bcrypt.MinCost),
		Tokens: jwt.NewManager("test-secret", "storefront-test", time.Hour),
		Logger: logger.Discard(),
	})
	require.NoError(t, err)
	return harness{sf: sf, mirror: m, backend: backend}
}

func (h harness) flush(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.mirror.Flush().Wait(ctx))
}

func lastNotice(t *testing.T, sf *Storefront) notify.Notice {
	t.Helper()
	notices := sf.Notices(1)
	require.Len(t, notices, 1)
	return notices[0]
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("空存储使用种子数据并写回", func(t *testing.T) {
		h := newHarness(t, Config{}, nil)
		assert.Len(t, h.sf.Books(ctx, book.Filter{}), 8)
		assert.Len(t, h.sf.Categories(ctx), 12)
		assert.Len(t, h.sf.Orders(ctx), 3)

		h.flush(t)
		for _, c := range []mirror.Collection{mirror.Books, mirror.Categories, mirror.Users, mirror.Orders} {
			_, err := h.backend.Get(ctx, h.mirror.Key(c))
			assert.NoError(t, err, c)
		}
	})

	t.Run("已有快照优先", func(t *testing.T) {
		backend := mirror.NewMemoryStore()
		require.NoError(t, backend.SetMany(ctx, map[string][]byte{
			"categories_data": []byte(`["Poetry"]`),
		}))

		h := newHarness(t, Config{}, backend)
		assert.Equal(t, []string{"Poetry"}, h.sf.Categories(ctx))
		assert.Len(t, h.sf.Books(ctx, book.Filter{}), 8, "其他集合仍回退到种子")
	})

	t.Run("重启后保留上次的变更", func(t *testing.T) {
		backend := mirror.NewMemoryStore()
		first := newHarness(t, Config{}, backend)
		require.NoError(t, first.sf.AddCategory(ctx, "Poetry"))
		first.flush(t)

		second := newHarness(t, Config{}, backend)
		assert.Contains(t, second.sf.Categories(ctx), "Poetry")
	})
}

func TestCheckoutScenario(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Config{}, nil)
	sf := h.sf

	// 1. 购物车:24.99 → 49.98
	view, err := sf.AddToCart(ctx, "1", 1)
	require.NoError(t, err)
	assert.Equal(t, "24.99", view.Total.StringFixed(2))
	assert.Equal(t, 1, view.ItemCount)
	assert.Equal(t, "Added to cart", lastNotice(t, sf).Title)

	view, err = sf.AddToCart(ctx, "1", 1)
	require.NoError(t, err)
	assert.Equal(t, "49.98", view.Total.StringFixed(2))
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)

	// 2. 未登录结账
	_, err = sf.Checkout(ctx)
	require.True(t, apperrors.IsAuthRequired(err))
	n := lastNotice(t, sf)
	assert.Equal(t, "Please log in", n.Title)
	assert.Equal(t, "You need to be logged in to complete checkout", n.Description)
	assert.Equal(t, notify.SeverityDestructive, n.Severity)

	// 3. 管理员登录并新增一本20.99的图书
	s, err := sf.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, s.User.Role)
	assert.Equal(t, "Logged in as Marawan Attallah", lastNotice(t, sf).Description)

	added, err := sf.AddBook(ctx, book.Fields{
		Title:    "Short Stories",
		Author:   "Various",
		Price:    decimal.RequireFromString("20.99"),
		Category: "Fiction",
		Rating:   4,
		InStock:  true,
	})
	require.NoError(t, err)

	// 4. 两件商品共45.98
	_, err = sf.SetQuantity(ctx, "1", 1)
	require.NoError(t, err)
	_, err = sf.AddToCart(ctx, added.ID, 1)
	require.NoError(t, err)

	o, err := sf.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "004", o.ID)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, "45.98", o.Total.StringFixed(2))
	assert.Zero(t, sf.Cart().ItemCount)
	assert.Equal(t, "Thank you for your order! Order #004 - Total: $45.98", lastNotice(t, sf).Description)

	// 5. 修改状态
	_, err = sf.SetOrderStatus(ctx, "999", order.StatusDelivered)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = sf.SetOrderStatus(ctx, o.ID, order.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, sf.Orders(ctx)[0].Status)

	mine, err := sf.MyOrders(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, mine)

	// 6. 订单已写入存储
	h.flush(t)
	raw, err := h.backend.Get(ctx, h.mirror.Key(mirror.Orders))
	require.NoError(t, err)
	var stored []order.Order
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, "004", stored[0].ID)
	assert.Equal(t, order.StatusDelivered, stored[0].Status)
}

func TestLogoutClearsCart(t *testing.T) {
	ctx := context.Background()
	sf := newHarness(t, Config{}, nil).sf

	_, err := sf.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	_, err = sf.AddToCart(ctx, "2", 3)
	require.NoError(t, err)

	require.NoError(t, sf.Logout(ctx))
	assert.Zero(t, sf.Cart().ItemCount)
	assert.False(t, sf.IsAdmin())
	assert.Equal(t, "Logged out", lastNotice(t, sf).Title)

	_, err = sf.MyOrders(ctx)
	assert.True(t, apperrors.IsAuthRequired(err))
}

func TestCategoryNotices(t *testing.T) {
	ctx := context.Background()
	sf := newHarness(t, Config{}, nil).sf

	t.Run("重复分类", func(t *testing.T) {
		err := sf.AddCategory(ctx, "Fiction")
		require.True(t, apperrors.IsDuplicate(err))
		n := lastNotice(t, sf)
		assert.Equal(t, "Category already exists", n.Title)
		assert.Equal(t, "This category already exists in the system", n.Description)
	})

	t.Run("重命名为已存在的分类", func(t *testing.T) {
		_, err := sf.RenameCategory(ctx, "Mystery", "Romance")
		require.True(t, apperrors.IsDuplicate(err))
		n := lastNotice(t, sf)
		assert.Equal(t, "Category already exists", n.Title)
		assert.Equal(t, "This category name already exists", n.Description)
	})

	t.Run("删除仍有图书的分类", func(t *testing.T) {
		err := sf.DeleteCategory(ctx, "Mystery")
		require.True(t, apperrors.IsConflict(err))
		n := lastNotice(t, sf)
		assert.Equal(t, "Cannot delete category", n.Title)
		assert.Equal(t, "This category contains 1 books. Please reassign or delete the books first.", n.Description)
	})

	t.Run("重命名", func(t *testing.T) {
		n, err := sf.RenameCategory(ctx, "Mystery", "Crime")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, "Category has been renamed to Crime", lastNotice(t, sf).Description)
	})
}

func TestStrictStock(t *testing.T) {
	ctx := context.Background()
	sf := newHarness(t, Config{StrictStock: true}, nil).sf

	_, err := sf.AddToCart(ctx, "4", 1)
	assert.True(t, apperrors.IsValidation(err), "图书4缺货")
	assert.Zero(t, sf.Cart().ItemCount)
}
