package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/domain/book"
	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/category"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/user"
)

func TestBookRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBookRepository()
	require.NoError(t, repo.ReplaceAll(ctx, []book.Book{
		{ID: "1", Category: "Mystery"},
		{ID: "2", Category: "Romance"},
		{ID: "3", Category: "Mystery"},
	}))

	t.Run("返回副本", func(t *testing.T) {
		b, err := repo.FindByID(ctx, "1")
		require.NoError(t, err)
		b.Category = "changed"

		again, _ := repo.FindByID(ctx, "1")
		assert.Equal(t, "Mystery", again.Category)
	})

	t.Run("按分类统计与改写", func(t *testing.T) {
		n, _ := repo.CountByCategory(ctx, "Mystery")
		assert.Equal(t, 2, n)

		rewritten, err := repo.ReassignCategory(ctx, "Mystery", "Crime")
		require.NoError(t, err)
		assert.Equal(t, 2, rewritten)

		n, _ = repo.CountByCategory(ctx, "Mystery")
		assert.Zero(t, n)
	})

	t.Run("更新不存在的图书", func(t *testing.T) {
		err := repo.Update(ctx, &book.Book{ID: "99"})
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})

	t.Run("删除幂等", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "2"))
		require.NoError(t, repo.Delete(ctx, "2"))
		books, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, books, 2)
	})
}

func TestCategoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository()
	require.NoError(t, repo.ReplaceAll(ctx, []string{"Fiction", "Mystery", "Travel"}))

	assert.ErrorIs(t, repo.Add(ctx, "Mystery"), category.ErrCategoryDuplicate)
	require.NoError(t, repo.Add(ctx, "mystery"))

	require.NoError(t, repo.Rename(ctx, "Mystery", "Crime"))
	names, _ := repo.List(ctx)
	assert.Equal(t, []string{"Fiction", "Crime", "Travel", "mystery"}, names)

	assert.ErrorIs(t, repo.Rename(ctx, "Crime", "Travel"), category.ErrCategoryDuplicate)
	assert.ErrorIs(t, repo.Rename(ctx, "Nope", "X"), category.ErrCategoryNotFound)
	require.NoError(t, repo.Rename(ctx, "Crime", "Crime"))
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	require.NoError(t, repo.Create(ctx, &user.User{ID: "1", Email: "a@example.com"}))

	_, err := repo.FindByEmail(ctx, "A@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	taken, _ := repo.EmailTaken(ctx, "A@EXAMPLE.com")
	assert.True(t, taken)

	assert.ErrorIs(t, repo.Create(ctx, &user.User{ID: "2", Email: "A@example.com"}), user.ErrEmailDuplicate)
}

func TestOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()

	first := &order.Order{ID: "001", Items: []cart.Item{{Quantity: 1}}}
	require.NoError(t, repo.Prepend(ctx, first))
	require.NoError(t, repo.Prepend(ctx, &order.Order{ID: "002"}))

	list, _ := repo.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "002", list[0].ID)

	t.Run("保存的是深拷贝", func(t *testing.T) {
		first.Items[0].Quantity = 50
		got, err := repo.FindByID(ctx, "001")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Items[0].Quantity)
	})

	assert.ErrorIs(t, repo.Update(ctx, &order.Order{ID: "404"}), order.ErrOrderNotFound)
}
