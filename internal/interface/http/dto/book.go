package dto

import (
	"github.com/shopspring/decimal"

	"github.com/xiebiao/storefront/internal/domain/book"
)

// BookRequest 新增/编辑图书请求
// 价格既可以是JSON数字也可以是字符串("24.99"),由decimal负责解析
// 业务校验(价格>0、评分0-5、分类存在)在领域层完成
type BookRequest struct {
	Title       string          `json:"title" binding:"required,max=200" example:"The Silent Observer"`
	Author      string          `json:"author" binding:"required,max=100" example:"Emma Richardson"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"24.99"`
	Category    string          `json:"category" binding:"required" example:"Mystery"`
	Cover       string          `json:"cover" binding:"omitempty,max=500" example:"https://example.com/cover.jpg"`
	Description string          `json:"description" binding:"max=5000"`
	Rating      float64         `json:"rating" example:"4.5"`
	InStock     *bool           `json:"inStock" example:"true"` // 省略时视为有货
}

// ToFields 转换为领域字段
func (r BookRequest) ToFields() book.Fields {
	inStock := true
	if r.InStock != nil {
		inStock = *r.InStock
	}
	return book.Fields{
		Title:       r.Title,
		Author:      r.Author,
		Price:       r.Price,
		Category:    r.Category,
		Cover:       r.Cover,
		Description: r.Description,
		Rating:      r.Rating,
		InStock:     inStock,
	}
}

// ListBooksRequest 图书列表查询
type ListBooksRequest struct {
	Query    string `form:"q" binding:"omitempty,max=100" example:"observer"`
	Category string `form:"category" binding:"omitempty,max=100" example:"Mystery"`
}

// BookResponse 图书响应
type BookResponse struct {
	ID          string  `json:"id" example:"1"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Price       string  `json:"price" example:"24.99"` // 两位小数
	Category    string  `json:"category"`
	Cover       string  `json:"cover"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
	InStock     bool    `json:"inStock"`
}

func NewBookResponse(b book.Book) BookResponse {
	return BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Price:       b.Price.StringFixed(2),
		Category:    b.Category,
		Cover:       b.Cover,
		Description: b.Description,
		Rating:      b.Rating,
		InStock:     b.InStock,
	}
}

func NewBookList(books []book.Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, NewBookResponse(b))
	}
	return out
}

// =========================================
// 分类
// =========================================

type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"Poetry"`
}

type RenameCategoryResponse struct {
	Name      string `json:"name"`
	Rewritten int    `json:"rewritten"` // 被改写分类的图书数量
}
