// Package category 分类领域:分类只是一个唯一的名字
package category

import (
	"context"
	"strings"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

var (
	ErrCategoryNotFound  = apperrors.New(apperrors.ErrCodeCategoryNotFound, "Category not found")
	ErrCategoryDuplicate = apperrors.New(apperrors.ErrCodeCategoryDuplicate, "Category already exists")
	ErrNameRequired      = apperrors.New(apperrors.ErrCodeInvalidParams, "Category name is required")

	// ErrCategoryInUse 分类下仍有图书,Details["book_count"]给出数量
	ErrCategoryInUse = apperrors.New(apperrors.ErrCodeCategoryInUse, "Cannot delete category")
)

// Normalize 去掉首尾空白,空名字返回ErrNameRequired
// 唯一性比较区分大小写
func Normalize(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	return name, nil
}

// InUse 构造带图书数量的冲突错误
func InUse(name string, count int) error {
	return ErrCategoryInUse.
		WithDetail("category", name).
		WithDetail("book_count", count).
		WithDescription("This category contains %d books. Please reassign or delete the books first.", count)
}

// Repository 分类仓储接口
type Repository interface {
	// List 按插入顺序返回全部分类
	List(ctx context.Context) ([]string, error)

	// Exists 是否存在(区分大小写)
	Exists(ctx context.Context, name string) (bool, error)

	// Add 追加分类,重名返回ErrCategoryDuplicate
	Add(ctx context.Context, name string) error

	// Rename 原位改名,保持顺序
	Rename(ctx context.Context, from, to string) error

	// Remove 删除分类(不存在时不报错)
	Remove(ctx context.Context, name string) error

	// ReplaceAll 整体替换
	ReplaceAll(ctx context.Context, names []string) error
}
