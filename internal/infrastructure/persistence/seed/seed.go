// Package seed 内置种子数据
//
// 存储里没有快照时使用:8本图书、12个分类、2个账号(1个管理员)和3个示例订单。
// 账号的演示密码以明文保存在种子文件里,加载时用PasswordHasher哈希,快照里只会出现哈希值。
// 示例订单只记录图书ID和数量,条目快照与总价在加载时根据种子图书计算。
package seed

import (
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xiebiao/storefront/internal/domain/book"
	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/user"
)

//go:embed data/*.json
var files embed.FS

func decode(name string, v any) error {
	raw, err := files.ReadFile("data/" + name)
	if err != nil {
		return fmt.Errorf("读取种子文件%s失败: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("解析种子文件%s失败: %w", name, err)
	}
	return nil
}

// Books 种子图书
func Books() ([]book.Book, error) {
	var books []book.Book
	if err := decode("books.json", &books); err != nil {
		return nil, err
	}
	return books, nil
}

// Categories 种子分类
func Categories() ([]string, error) {
	var names []string
	if err := decode("categories.json", &names); err != nil {
		return nil, err
	}
	return names, nil
}

type seedUser struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Name     string    `json:"name"`
	Role     user.Role `json:"role"`
}

// Users 种子账号(密码已哈希)
func Users(hasher user.PasswordHasher) ([]user.User, error) {
	var raw []seedUser
	if err := decode("users.json", &raw); err != nil {
		return nil, err
	}

	users := make([]user.User, 0, len(raw))
	for _, su := range raw {
		hash, err := hasher.Hash(su.Password)
		if err != nil {
			return nil, err
		}
		users = append(users, user.User{
			ID:           su.ID,
			Email:        su.Email,
			PasswordHash: hash,
			Name:         su.Name,
			Role:         su.Role,
		})
	}
	return users, nil
}

type seedOrder struct {
	ID            string       `json:"id"`
	CustomerID    string       `json:"customerId"`
	CustomerName  string       `json:"customerName"`
	CustomerEmail string       `json:"customerEmail"`
	Items         []seedItem   `json:"items"`
	Status        order.Status `json:"status"`
	CreatedAt     time.Time    `json:"createdAt"`
}

type seedItem struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

// Orders 示例订单,最新在前
func Orders() ([]order.Order, error) {
	books, err := Books()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]book.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	var raw []seedOrder
	if err := decode("orders.json", &raw); err != nil {
		return nil, err
	}

	orders := make([]order.Order, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		so := raw[i]
		items := make([]cart.Item, 0, len(so.Items))
		for _, it := range so.Items {
			b, ok := byID[it.BookID]
			if !ok {
				return nil, fmt.Errorf("订单%s引用了不存在的图书%s", so.ID, it.BookID)
			}
			items = append(items, cart.Item{Book: b, Quantity: it.Quantity})
		}

		customer := order.Customer{ID: so.CustomerID, Name: so.CustomerName, Email: so.CustomerEmail}
		o, err := order.NewOrder(so.ID, customer, items, so.CreatedAt)
		if err != nil {
			return nil, err
		}
		o.Status = so.Status
		orders = append(orders, *o)
	}
	return orders, nil
}
