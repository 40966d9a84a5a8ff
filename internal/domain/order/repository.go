package order

import (
	"context"
)

// Repository 订单仓储接口
// 顺序约定:List返回最新订单在前
type Repository interface {
	// List 全部订单,最新在前
	List(ctx context.Context) ([]Order, error)

	// FindByID 根据订单号查找,不存在返回ErrOrderNotFound
	FindByID(ctx context.Context, id string) (*Order, error)

	// Prepend 新订单插入到最前
	Prepend(ctx context.Context, o *Order) error

	// Update 原位替换
	Update(ctx context.Context, o *Order) error

	// ReplaceAll 整体替换(加载快照)
	ReplaceAll(ctx context.Context, orders []Order) error
}
