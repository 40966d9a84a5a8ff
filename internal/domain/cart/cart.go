// Package cart 购物车聚合
//
// 购物车只属于当前会话,不落库;结账时由订单账本深拷贝条目。
package cart

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/storefront/internal/domain/book"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

var (
	ErrItemNotFound    = apperrors.New(apperrors.ErrCodeCartItemNotFound, "Item not in cart")
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "Quantity must be a positive integer")
)

// Item 购物车条目
// Book是加入购物车时的图书快照
type Item struct {
	Book     book.Book `json:"book"`
	Quantity int       `json:"quantity"`
}

// Subtotal 单价×数量
func (i Item) Subtotal() decimal.Decimal {
	return i.Book.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Option 购物车选项
type Option func(*Cart)

// WithStrictStock 严格库存模式:拒绝加入缺货图书
func WithStrictStock() Option {
	return func(c *Cart) { c.strictStock = true }
}

// Cart 购物车
// 不变量:同一本书只有一个条目,数量始终为正
type Cart struct {
	items       []Item
	strictStock bool
}

// New 创建空购物车
func New(opts ...Option) *Cart {
	c := &Cart{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddItem 加入购物车
// 已存在的图书累加数量,否则追加新条目
func (c *Cart) AddItem(b book.Book, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if c.strictStock && !b.InStock {
		return book.ErrOutOfStock.WithDescription("%s is currently out of stock", b.Title)
	}

	if i := c.index(b.ID); i >= 0 {
		// 累加不能溢出,否则数量变成负数
		if quantity > math.MaxInt-c.items[i].Quantity {
			return ErrInvalidQuantity
		}
		c.items[i].Quantity += quantity
		return nil
	}
	c.items = append(c.items, Item{Book: b, Quantity: quantity})
	return nil
}

// SetQuantity 修改数量,0等价于RemoveItem
func (c *Cart) SetQuantity(bookID string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	i := c.index(bookID)
	if i < 0 {
		if quantity == 0 {
			return nil
		}
		return ErrItemNotFound
	}
	if quantity == 0 {
		c.items = slices.Delete(c.items, i, i+1)
		return nil
	}
	c.items[i].Quantity = quantity
	return nil
}

// RemoveItem 移除条目(幂等)
func (c *Cart) RemoveItem(bookID string) {
	c.items = slices.DeleteFunc(c.items, func(it Item) bool { return it.Book.ID == bookID })
}

// Total 总价(完整精度)
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// TotalDisplay 保留两位小数的展示值
func (c *Cart) TotalDisplay() string {
	return c.Total().StringFixed(2)
}

// ItemCount 所有条目数量之和(角标显示)
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Items 条目副本
func (c *Cart) Items() []Item {
	return slices.Clone(c.items)
}

// IsEmpty 购物车是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Clear 清空(结账成功或登出后调用)
func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) index(bookID string) int {
	return slices.IndexFunc(c.items, func(it Item) bool { return it.Book.ID == bookID })
}
