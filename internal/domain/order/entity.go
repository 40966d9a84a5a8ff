package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/storefront/internal/domain/cart"
)

// Status 订单状态
// 使用字符串存储,快照里直接可读
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Statuses 全部状态(后台下拉框顺序)
var Statuses = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// ParseStatus 解析状态字符串(忽略大小写和首尾空白)
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", ErrUnknownStatus.WithDetail("status", s)
}

// IsTerminal 已送达或已取消
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Customer 下单用户的快照
type Customer struct {
	ID    string
	Name  string
	Email string
}

// Order 订单实体(聚合根)
// 设计说明:
// 1. Items是下单瞬间购物车的深拷贝,之后修改图书不影响历史订单
// 2. Total冗余存储 = Σ(单价×数量)
// 3. 订单从不删除,只有状态会被后台修改
type Order struct {
	ID            string          `json:"id"`
	CustomerID    string          `json:"customerId"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	Items         []cart.Item     `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// NewOrder 创建新订单(工厂方法)
// 初始状态为pending
func NewOrder(id string, customer Customer, items []cart.Item, createdAt time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	snapshot := make([]cart.Item, len(items))
	copy(snapshot, items)

	return &Order{
		ID:            id,
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		Items:         snapshot,
		Total:         SumItems(snapshot),
		Status:        StatusPending,
		CreatedAt:     createdAt.UTC(),
	}, nil
}

// SumItems 计算条目总价
func SumItems(items []cart.Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// TransitionTo 按策略修改状态
func (o *Order) TransitionTo(target Status, policy TransitionPolicy) error {
	if !policy.Allow(o.Status, target) {
		return ErrInvalidStatusTransition.
			WithDetail("from", string(o.Status)).
			WithDetail("to", string(target)).
			WithDescription("Order %s cannot move from %s to %s", o.ID, o.Status, target)
	}
	o.Status = target
	return nil
}

// ItemCount 订单内图书总数
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
