package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/order"
)

// OrderRepository 订单仓储的内存实现,最新订单在前
type OrderRepository struct {
	mu     sync.RWMutex
	orders []order.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]order.Order, len(r.orders))
	for i, o := range r.orders {
		out[i] = cloneOrder(o)
	}
	return out, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.index(id); i >= 0 {
		o := cloneOrder(r.orders[i])
		return &o, nil
	}
	return nil, order.ErrOrderNotFound
}

func (r *OrderRepository) Prepend(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = slices.Insert(r.orders, 0, cloneOrder(*o))
	return nil
}

func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(o.ID)
	if i < 0 {
		return order.ErrOrderNotFound
	}
	r.orders[i] = cloneOrder(*o)
	return nil
}

func (r *OrderRepository) ReplaceAll(ctx context.Context, orders []order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders = make([]order.Order, len(orders))
	for i, o := range orders {
		r.orders[i] = cloneOrder(o)
	}
	return nil
}

func (r *OrderRepository) index(id string) int {
	return slices.IndexFunc(r.orders, func(o order.Order) bool { return o.ID == id })
}

// cloneOrder 订单含条目切片,需要深拷贝
func cloneOrder(o order.Order) order.Order {
	o.Items = slices.Clone(o.Items)
	if o.Items == nil {
		o.Items = []cart.Item{}
	}
	return o
}
