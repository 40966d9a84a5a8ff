package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 实现在infrastructure/persistence/memory，快照由mirror负责持久化
type Repository interface {
	// List 全部用户（注册顺序）
	List(ctx context.Context) ([]User, error)

	// FindByID 根据ID查找用户，不存在返回ErrUserNotFound
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail 邮箱精确匹配（区分大小写），不存在返回ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// EmailTaken 邮箱是否已被占用（不区分大小写）
	EmailTaken(ctx context.Context, email string) (bool, error)

	// Create 追加用户，邮箱冲突返回ErrEmailDuplicate
	Create(ctx context.Context, u *User) error

	// ReplaceAll 整体替换（加载快照）
	ReplaceAll(ctx context.Context, users []User) error
}
