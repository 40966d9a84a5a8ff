package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/domain/book"
	"github.com/xiebiao/storefront/internal/domain/cart"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

func items() []cart.Item {
	return []cart.Item{
		{Book: book.Book{ID: "1", Price: decimal.RequireFromString("24.99")}, Quantity: 1},
		{Book: book.Book{ID: "2", Price: decimal.RequireFromString("20.99")}, Quantity: 1},
	}
}

func TestNewOrder(t *testing.T) {
	now := time.Date(2024, 1, 15, 18, 30, 0, 0, time.FixedZone("CST", 8*3600))
	src := items()

	o, err := NewOrder("001", Customer{ID: "2", Name: "Marawan User", Email: "u@example.com"}, src, now)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("45.98")))
	assert.Equal(t, time.UTC, o.CreatedAt.Location())
	assert.Equal(t, 2, o.ItemCount())

	t.Run("条目是深拷贝", func(t *testing.T) {
		src[0].Quantity = 9
		assert.Equal(t, 1, o.Items[0].Quantity)
	})

	t.Run("空条目", func(t *testing.T) {
		_, err := NewOrder("002", Customer{}, nil, now)
		assert.ErrorIs(t, err, ErrEmptyCart)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Delivered ")
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, st)

	_, err = ParseStatus("returned")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestTransitionPolicies(t *testing.T) {
	t.Run("宽松策略允许任意流转", func(t *testing.T) {
		o := &Order{ID: "001", Status: StatusDelivered}
		require.NoError(t, o.TransitionTo(StatusPending, PermissivePolicy{}))
		assert.Equal(t, StatusPending, o.Status)
	})

	tests := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusPending, StatusCancelled, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusShipped, StatusCancelled, false},
		{StatusPending, StatusDelivered, false},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusShipped, StatusShipped, true},
		{StatusDelivered, StatusDelivered, true},
		{StatusCancelled, StatusDelivered, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			o := &Order{ID: "001", Status: tt.from}
			err := o.TransitionTo(tt.to, MonotonicPolicy{})
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, o.Status)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidStatusTransition)
			assert.Equal(t, tt.from, o.Status)
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	for _, st := range Statuses {
		want := st == StatusDelivered || st == StatusCancelled
		assert.Equal(t, want, st.IsTerminal(), string(st))
	}
}

func TestNextOrderNo(t *testing.T) {
	assert.Equal(t, "001", NextOrderNo(nil))
	assert.Equal(t, "004", NextOrderNo([]Order{{ID: "003"}, {ID: "002"}, {ID: "001"}}))
	// 号码冲突时顺延
	assert.Equal(t, "003", NextOrderNo([]Order{{ID: "002"}}))
	assert.Equal(t, "1000", FormatOrderNo(1000))
}
