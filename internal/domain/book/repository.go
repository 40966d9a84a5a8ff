package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 返回值一律是副本,调用方修改不会影响仓储内部状态
// 3. List保持插入顺序(即目录展示顺序)
type Repository interface {
	// List 按目录顺序返回全部图书
	List(ctx context.Context) ([]Book, error)

	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id string) (*Book, error)

	// Create 追加图书
	Create(ctx context.Context, book *Book) error

	// Update 原位替换图书,不存在返回ErrBookNotFound
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(不存在时不报错)
	Delete(ctx context.Context, id string) error

	// CountByCategory 统计引用某分类的图书数量
	CountByCategory(ctx context.Context, category string) (int, error)

	// ReassignCategory 把所有from分类的图书改为to,返回改写的数量
	ReassignCategory(ctx context.Context, from, to string) (int, error)

	// ReplaceAll 整体替换(启动加载快照、事务回滚时使用)
	ReplaceAll(ctx context.Context, books []Book) error
}
