// Package memory 内存仓储实现
//
// 内存里的集合是唯一的事实来源,mirror只负责把快照镜像到KV存储。
// 所有方法返回副本,读写各自加锁。
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/xiebiao/storefront/internal/domain/book"
)

// BookRepository 图书仓储的内存实现
type BookRepository struct {
	mu    sync.RWMutex
	books []book.Book
}

// NewBookRepository 创建图书仓储
func NewBookRepository() *BookRepository {
	return &BookRepository{}
}

func (r *BookRepository) List(ctx context.Context) ([]book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.books), nil
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.index(id); i >= 0 {
		b := r.books[i]
		return &b, nil
	}
	return nil, book.ErrBookNotFound
}

func (r *BookRepository) Create(ctx context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = append(r.books, *b)
	return nil
}

func (r *BookRepository) Update(ctx context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(b.ID)
	if i < 0 {
		return book.ErrBookNotFound
	}
	r.books[i] = *b
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = slices.DeleteFunc(r.books, func(b book.Book) bool { return b.ID == id })
	return nil
}

func (r *BookRepository) CountByCategory(ctx context.Context, category string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, b := range r.books {
		if b.Category == category {
			n++
		}
	}
	return n, nil
}

func (r *BookRepository) ReassignCategory(ctx context.Context, from, to string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for i := range r.books {
		if r.books[i].Category == from {
			r.books[i].Category = to
			n++
		}
	}
	return n, nil
}

func (r *BookRepository) ReplaceAll(ctx context.Context, books []book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = slices.Clone(books)
	return nil
}

func (r *BookRepository) index(id string) int {
	return slices.IndexFunc(r.books, func(b book.Book) bool { return b.ID == id })
}
