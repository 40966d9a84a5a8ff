// Package storefront 店面门面
//
// HTTP处理器运行在多个goroutine上,门面用一把互斥锁把所有操作串行化,
// 相当于前端的单线程事件循环;每个变更操作都会产生一条用户通知。
package storefront

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/storefront/internal/application/catalog"
	"github.com/xiebiao/storefront/internal/application/notify"
	orderapp "github.com/xiebiao/storefront/internal/application/order"
	"github.com/xiebiao/storefront/internal/application/session"
	"github.com/xiebiao/storefront/internal/domain/book"
	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/category"
	"github.com/xiebiao/storefront/internal/domain/order"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/logger"
	"github.com/xiebiao/storefront/pkg/metrics"
)

// Options 展示相关参数
type Options struct {
	FeaturedCount int
	RelatedCount  int
}

// CartView 购物车视图
type CartView struct {
	Items     []cart.Item     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// Storefront 店面门面
type Storefront struct {
	mu       sync.Mutex
	catalog  *catalog.Store
	ledger   *orderapp.Ledger
	gate     *session.Gate
	cart     *cart.Cart
	notifier notify.Notifier
	recorder *notify.Recorder
	opts     Options
	logger   *slog.Logger
}

func New(
	cat *catalog.Store,
	ledger *orderapp.Ledger,
	gate *session.Gate,
	c *cart.Cart,
	recorder *notify.Recorder,
	notifier notify.Notifier,
	opts Options,
	log *slog.Logger,
) *Storefront {
	metrics.Init()

	if opts.FeaturedCount <= 0 {
		opts.FeaturedCount = 8
	}
	if opts.RelatedCount <= 0 {
		opts.RelatedCount = 4
	}
	if notifier == nil {
		notifier = notify.Multi{recorder}
	}
	return &Storefront{
		catalog:  cat,
		ledger:   ledger,
		gate:     gate,
		cart:     c,
		notifier: notifier,
		recorder: recorder,
		opts:     opts,
		logger:   logger.Component(log, "storefront"),
	}
}

func (s *Storefront) notify(ctx context.Context, n notify.Notice) {
	s.notifier.Notify(ctx, n)
}

// fail 发出destructive通知并原样返回错误
func (s *Storefront) fail(ctx context.Context, title string, err error) error {
	s.notify(ctx, notify.Failure(title, err))
	return err
}

// Notices 最近的通知,最新在前
func (s *Storefront) Notices(n int) []notify.Notice {
	return s.recorder.Recent(n)
}

// =========================================
// 图书
// =========================================

func (s *Storefront) Books(ctx context.Context, f book.Filter) []book.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Books(ctx, f)
}

func (s *Storefront) Book(ctx context.Context, id string) (book.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.GetBook(ctx, id)
}

func (s *Storefront) Featured(ctx context.Context) []book.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Featured(ctx, s.opts.FeaturedCount)
}

func (s *Storefront) Related(ctx context.Context, id string) ([]book.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Related(ctx, id, s.opts.RelatedCount)
}

func (s *Storefront) AddBook(ctx context.Context, f book.Fields) (book.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.catalog.AddBook(ctx, f)
	if err != nil {
		return book.Book{}, s.fail(ctx, "", err)
	}
	s.notify(ctx, notify.Success("Book added successfully!", "%s has been added to the catalog", b.Title))
	return b, nil
}

func (s *Storefront) UpdateBook(ctx context.Context, id string, f book.Fields) (book.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.catalog.UpdateBook(ctx, id, f)
	if err != nil {
		return book.Book{}, s.fail(ctx, "", err)
	}
	s.notify(ctx, notify.Success("Book updated successfully!", "%s has been updated", b.Title))
	return b, nil
}

func (s *Storefront) DeleteBook(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	title := id
	if b, err := s.catalog.GetBook(ctx, id); err == nil {
		title = b.Title
	}
	if err := s.catalog.DeleteBook(ctx, id); err != nil {
		return s.fail(ctx, "", err)
	}
	s.notify(ctx, notify.Success("Book deleted", "%s has been removed from the catalog", title))
	return nil
}

// =========================================
// 分类
// =========================================

func (s *Storefront) Categories(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Categories(ctx)
}

func (s *Storefront) AddCategory(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.catalog.AddCategory(ctx, name); err != nil {
		if errors.Is(err, category.ErrCategoryDuplicate) {
			err = category.ErrCategoryDuplicate.WithDescription("This category already exists in the system")
		}
		return s.fail(ctx, "", err)
	}
	s.notify(ctx, notify.Success("Category added", "%s has been added to categories", strings.TrimSpace(name)))
	return nil
}

// RenameCategory 返回被改写的图书数量
func (s *Storefront) RenameCategory(ctx context.Context, oldName, newName string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.catalog.RenameCategory(ctx, oldName, newName)
	if err != nil {
		if errors.Is(err, category.ErrCategoryDuplicate) {
			err = category.ErrCategoryDuplicate.WithDescription("This category name already exists")
		}
		return 0, s.fail(ctx, "", err)
	}
	s.notify(ctx, notify.Success("Category updated", "Category has been renamed to %s", newName))
	return n, nil
}

func (s *Storefront) DeleteCategory(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.catalog.DeleteCategory(ctx, name); err != nil {
		return s.fail(ctx, "", err)
	}
	s.notify(ctx, notify.Success("Category deleted", "%s has been removed from categories", name))
	return nil
}

// =========================================
// 购物车
// =========================================

// Cart 当前购物车
func (s *Storefront) Cart() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartView()
}

func (s *Storefront) cartView() CartView {
	return CartView{
		Items:     s.cart.Items(),
		Total:     s.cart.Total(),
		ItemCount: s.cart.ItemCount(),
	}
}

// AddToCart 按图书ID加入购物车
func (s *Storefront) AddToCart(ctx context.Context, bookID string, quantity int) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.catalog.GetBook(ctx, bookID)
	if err != nil {
		return CartView{}, s.fail(ctx, "", err)
	}
	if err := s.cart.AddItem(b, quantity); err != nil {
		return CartView{}, s.fail(ctx, "", err)
	}
	metrics.CartMutationsTotal.WithLabelValues("add").Inc()
	s.notify(ctx, notify.Success("Added to cart", "%s has been added to your cart", b.Title))
	return s.cartView(), nil
}

// SetQuantity 修改数量,0表示移除
func (s *Storefront) SetQuantity(ctx context.Context, bookID string, quantity int) (CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.SetQuantity(bookID, quantity); err != nil {
		return CartView{}, s.fail(ctx, "", err)
	}
	metrics.CartMutationsTotal.WithLabelValues("set").Inc()
	return s.cartView(), nil
}

func (s *Storefront) RemoveFromCart(ctx context.Context, bookID string) CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.RemoveItem(bookID)
	metrics.CartMutationsTotal.WithLabelValues("remove").Inc()
	s.notify(ctx, notify.Info("Item removed", "Item has been removed from your cart"))
	return s.cartView()
}

// =========================================
// 订单
// =========================================

// Checkout 用当前会话和购物车下单
func (s *Storefront) Checkout(ctx context.Context) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, _ := s.gate.CurrentUser()
	o, err := s.ledger.PlaceOrder(ctx, s.cart, u)
	if err != nil {
		return order.Order{}, s.fail(ctx, "", err)
	}
	metrics.CartMutationsTotal.WithLabelValues("clear").Inc()
	s.notify(ctx, notify.Success("Order placed!",
		"Thank you for your order! Order #%s - Total: $%s", o.ID, o.Total.StringFixed(2)))
	return o, nil
}

func (s *Storefront) SetOrderStatus(ctx context.Context, id string, status order.Status) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.ledger.SetStatus(ctx, id, status)
	if err != nil {
		return order.Order{}, s.fail(ctx, "", err)
	}
	s.notify(ctx, notify.Success("Order status updated", "Order #%s status updated to %s", o.ID, o.Status))
	return o, nil
}

func (s *Storefront) Order(ctx context.Context, id string) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.GetOrder(ctx, id)
}

func (s *Storefront) Orders(ctx context.Context) []order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.ListOrders(ctx)
}

// MyOrders 当前用户的订单
func (s *Storefront) MyOrders(ctx context.Context) ([]order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.gate.CurrentUser()
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}
	return s.ledger.ListByCustomer(ctx, u.ID), nil
}

// =========================================
// 会话
// =========================================

func (s *Storefront) Login(ctx context.Context, email, password string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.gate.Login(ctx, email, password)
	if err != nil {
		return nil, s.fail(ctx, "Login failed", err)
	}
	s.notify(ctx, notify.Success("Welcome back!", "Logged in as %s", sess.User.Name))
	return sess, nil
}

func (s *Storefront) Register(ctx context.Context, email, password, name string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.gate.Register(ctx, email, password, name)
	if err != nil {
		return nil, s.fail(ctx, "", err)
	}
	s.notify(ctx, notify.Success("Account created!",
		"Welcome %s! Please check your email for verification.", sess.User.Name))
	return sess, nil
}

// Logout 结束会话并清空购物车
func (s *Storefront) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.gate.Current(); !ok {
		return nil
	}
	if err := s.gate.Logout(ctx); err != nil {
		s.logger.Warn("revoke session failed", "error", err)
	}
	s.notify(ctx, notify.Info("Logged out", "You have been successfully logged out"))
	return nil
}

// Session 当前会话
func (s *Storefront) Session() (*session.Session, bool) {
	return s.gate.Current()
}

func (s *Storefront) IsAdmin() bool {
	return s.gate.IsAdmin()
}

// Authenticate 校验请求携带的Token
func (s *Storefront) Authenticate(ctx context.Context, token string) (*session.Session, error) {
	return s.gate.Authenticate(ctx, token)
}
