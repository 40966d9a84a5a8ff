package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/xiebiao/storefront/internal/domain/category"
)

// CategoryRepository 分类仓储的内存实现,保持插入顺序
type CategoryRepository struct {
	mu    sync.RWMutex
	names []string
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

func (r *CategoryRepository) List(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.names), nil
}

func (r *CategoryRepository) Exists(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.names, name), nil
}

func (r *CategoryRepository) Add(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.names, name) {
		return category.ErrCategoryDuplicate
	}
	r.names = append(r.names, name)
	return nil
}

func (r *CategoryRepository) Rename(ctx context.Context, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.Index(r.names, from)
	if i < 0 {
		return category.ErrCategoryNotFound
	}
	if from != to && slices.Contains(r.names, to) {
		return category.ErrCategoryDuplicate
	}
	r.names[i] = to
	return nil
}

func (r *CategoryRepository) Remove(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = slices.DeleteFunc(r.names, func(n string) bool { return n == name })
	return nil
}

func (r *CategoryRepository) ReplaceAll(ctx context.Context, names []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = slices.Clone(names)
	return nil
}
