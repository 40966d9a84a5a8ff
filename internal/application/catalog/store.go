package catalog

import (
	"context"
	"iter"
	"log/slog"
	"sync"

	"github.com/xiebiao/storefront/internal/domain/book"
	"github.com/xiebiao/storefront/internal/domain/category"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mirror"
	"github.com/xiebiao/storefront/pkg/logger"
	"github.com/xiebiao/storefront/pkg/saga"
)

// Store 图书目录(图书+分类)
// 设计说明:
// 1. 内存仓储是唯一的事实来源,每次变更后把整个集合交给mirror异步落盘
// 2. 写锁保证分类重命名等跨集合操作对读者不可见中间状态
// 3. 落盘失败不影响本次操作的返回值(由mirror记录日志和指标)
type Store struct {
	mu         sync.RWMutex
	books      book.Repository
	categories category.Repository
	mirror     *mirror.Mirror
	logger     *slog.Logger
}

func NewStore(books book.Repository, categories category.Repository, m *mirror.Mirror, log *slog.Logger) *Store {
	return &Store{
		books:      books,
		categories: categories,
		mirror:     m,
		logger:     logger.Component(log, "catalog"),
	}
}

// ListBooks 按过滤条件惰性遍历图书
// 调用时取一次快照,返回的序列可以反复遍历,每次结果相同
func (s *Store) ListBooks(ctx context.Context, f book.Filter) iter.Seq[book.Book] {
	s.mu.RLock()
	snapshot, err := s.books.List(ctx)
	s.mu.RUnlock()
	if err != nil {
		s.logger.Error("list books failed", "error", err)
	}
	return book.Select(snapshot, f)
}

// Books 返回过滤后的图书切片
func (s *Store) Books(ctx context.Context, f book.Filter) []book.Book {
	out := []book.Book{}
	for b := range s.ListBooks(ctx, f) {
		out = append(out, b)
	}
	return out
}

func (s *Store) GetBook(ctx context.Context, id string) (book.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := s.books.FindByID(ctx, id)
	if err != nil {
		return book.Book{}, err
	}
	return *b, nil
}

// AddBook 新增图书
// 学习要点:ID取"当前数量+1",若已被占用则继续递增(删除过图书后数量会回退)
func (s *Store) AddBook(ctx context.Context, f book.Fields) (book.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := f.Validate(); err != nil {
		return book.Book{}, err
	}
	if err := s.requireCategory(ctx, f.Category); err != nil {
		return book.Book{}, err
	}

	all, err := s.books.List(ctx)
	if err != nil {
		return book.Book{}, err
	}
	b, err := book.NewBook(book.NextID(all), f)
	if err != nil {
		return book.Book{}, err
	}
	if err := s.books.Create(ctx, b); err != nil {
		return book.Book{}, err
	}

	s.saveBooks(ctx)
	s.logger.Info("book added", "id", b.ID, "title", b.Title)
	return *b, nil
}

func (s *Store) UpdateBook(ctx context.Context, id string, f book.Fields) (book.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.books.FindByID(ctx, id)
	if err != nil {
		return book.Book{}, err
	}
	if err := f.Validate(); err != nil {
		return book.Book{}, err
	}
	if err := s.requireCategory(ctx, f.Category); err != nil {
		return book.Book{}, err
	}
	if err := b.Apply(f); err != nil {
		return book.Book{}, err
	}
	if err := s.books.Update(ctx, b); err != nil {
		return book.Book{}, err
	}

	s.saveBooks(ctx)
	return *b, nil
}

// DeleteBook 删除图书,不存在时静默成功
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.books.Delete(ctx, id); err != nil {
		return err
	}
	s.saveBooks(ctx)
	return nil
}

// Featured 首页推荐(前n本)
func (s *Store) Featured(ctx context.Context, n int) []book.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.books.List(ctx)
	if err != nil {
		s.logger.Error("list books failed", "error", err)
		return []book.Book{}
	}
	return book.Featured(all, n)
}

// Related 同分类的其他图书
func (s *Store) Related(ctx context.Context, id string, n int) ([]book.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := s.books.List(ctx)
	if err != nil {
		return nil, err
	}
	return book.Related(all, *target, n), nil
}

// =========================================
// 分类
// =========================================

// Categories 全部分类(插入顺序)
func (s *Store) Categories(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names, err := s.categories.List(ctx)
	if err != nil {
		s.logger.Error("list categories failed", "error", err)
		return []string{}
	}
	return names
}

// AddCategory 新增分类(区分大小写)
func (s *Store) AddCategory(ctx context.Context, name string) error {
	name, err := category.Normalize(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.categories.Add(ctx, name); err != nil {
		return err
	}
	s.saveCategories(ctx)
	return nil
}

// RenameCategory 重命名分类并改写引用它的图书,返回改写的图书数量
//
// 两步在同一把写锁内以saga执行:
//  1. 分类列表中改名(补偿:改回原名)
//  2. 图书的category字段从旧名改为新名(补偿:恢复改写前的图书快照)
//
// 两个集合最后作为一个批次原子落盘
func (s *Store) RenameCategory(ctx context.Context, oldName, newName string) (int, error) {
	newName, err := category.Normalize(newName)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.categories.Exists(ctx, oldName)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, category.ErrCategoryNotFound.WithDetail("category", oldName)
	}
	if oldName == newName {
		return 0, nil
	}
	taken, err := s.categories.Exists(ctx, newName)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, category.ErrCategoryDuplicate.WithDetail("category", newName)
	}

	before, err := s.books.List(ctx)
	if err != nil {
		return 0, err
	}

	var rewritten int
	err = saga.New("rename_category", saga.WithLogger(s.logger)).
		AddStep("rename",
			func(ctx context.Context) error {
				return s.categories.Rename(ctx, oldName, newName)
			},
			func(ctx context.Context) error {
				return s.categories.Rename(ctx, newName, oldName)
			}).
		AddStep("reassign_books",
			func(ctx context.Context) error {
				n, err := s.books.ReassignCategory(ctx, oldName, newName)
				rewritten = n
				return err
			},
			func(ctx context.Context) error {
				return s.books.ReplaceAll(ctx, before)
			}).
		Execute(ctx)
	if err != nil {
		return 0, err
	}

	s.saveBatch(ctx, mirror.Books, mirror.Categories)
	s.logger.Info("category renamed", "from", oldName, "to", newName, "books", rewritten)
	return rewritten, nil
}

// DeleteCategory 删除分类
// 仍有图书引用时返回Conflict(携带图书数量);分类不存在时静默成功
func (s *Store) DeleteCategory(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.books.CountByCategory(ctx, name)
	if err != nil {
		return err
	}
	if n > 0 {
		return category.InUse(name, n)
	}
	if err := s.categories.Remove(ctx, name); err != nil {
		return err
	}
	s.saveCategories(ctx)
	return nil
}

// =========================================
// 内部方法(调用方持有写锁)
// =========================================

func (s *Store) requireCategory(ctx context.Context, name string) error {
	ok, err := s.categories.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return category.ErrCategoryNotFound.WithDetail("category", name)
	}
	return nil
}

func (s *Store) saveBooks(ctx context.Context)      { s.saveBatch(ctx, mirror.Books) }
func (s *Store) saveCategories(ctx context.Context) { s.saveBatch(ctx, mirror.Categories) }

func (s *Store) saveBatch(ctx context.Context, collections ...mirror.Collection) {
	batch := make(map[mirror.Collection]any, len(collections))
	for _, c := range collections {
		var (
			data any
			err  error
		)
		switch c {
		case mirror.Books:
			data, err = s.books.List(ctx)
		case mirror.Categories:
			data, err = s.categories.List(ctx)
		}
		if err != nil {
			s.logger.Error("snapshot skipped", "collection", c, "error", err)
			return
		}
		batch[c] = data
	}
	s.mirror.SaveBatch(batch)
}

// Restore 用已加载的集合替换当前内容(不触发落盘)
func (s *Store) Restore(ctx context.Context, books []book.Book, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.books.ReplaceAll(ctx, books); err != nil {
		return err
	}
	return s.categories.ReplaceAll(ctx, names)
}
