package seed

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/storefront/internal/domain/book"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/user"
)

func TestBooks(t *testing.T) {
	books, err := Books()
	require.NoError(t, err)
	require.Len(t, books, 8)

	categories, err := Categories()
	require.NoError(t, err)
	assert.Len(t, categories, 12)

	for _, b := range books {
		assert.NoError(t, b.Fields().Validate(), "book %s", b.ID)
		assert.Contains(t, categories, b.Category, "图书分类必须存在")
	}

	assert.Equal(t, "The Silent Observer", books[0].Title)
	assert.True(t, books[0].Price.Equal(decimal.RequireFromString("24.99")))
	assert.False(t, books[3].InStock)
	assert.Equal(t, "9", book.NextID(books))
}

func TestUsers_AreHashed(t *testing.T) {
	hasher := user.NewBcryptHasher(bcrypt.MinCost)
	users, err := Users(hasher)
	require.NoError(t, err)
	require.Len(t, users, 2)

	admin := users[0]
	assert.True(t, admin.IsAdmin())
	assert.NotEqual(t, "123456789", admin.PasswordHash)
	assert.NoError(t, hasher.Compare(admin.PasswordHash, "123456789"))
	assert.Equal(t, user.RoleUser, users[1].Role)
}

func TestOrders(t *testing.T) {
	orders, err := Orders()
	require.NoError(t, err)
	require.Len(t, orders, 3)

	// 最新在前
	assert.Equal(t, []string{"003", "002", "001"}, []string{orders[0].ID, orders[1].ID, orders[2].ID})
	assert.Equal(t, order.NextOrderNo(orders), "004")

	totals := map[string]string{"001": "44.98", "002": "16.99", "003": "45.98"}
	for _, o := range orders {
		assert.True(t, o.Total.Equal(order.SumItems(o.Items)))
		assert.Equal(t, totals[o.ID], o.Total.StringFixed(2), "order %s", o.ID)
	}
	assert.Equal(t, order.StatusDelivered, orders[2].Status)
}
