package book

import (
	"strings"

	"github.com/shopspring/decimal"
)

// 评分区间
const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Book 图书实体(聚合根)
// 设计说明:
// 1. ID是字符串形式的顺序号("1","2",...),与持久化快照保持一致
// 2. 价格使用decimal存储,避免浮点数累加误差
// 3. Category只保存分类名,分类是否存在由Catalog Store保证
type Book struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Cover       string          `json:"cover"`
	Description string          `json:"description"`
	Rating      float64         `json:"rating"`
	InStock     bool            `json:"inStock"`
}

// Fields 除ID外的全部可编辑字段(新增、编辑表单共用)
type Fields struct {
	Title       string
	Author      string
	Price       decimal.Decimal
	Category    string
	Cover       string
	Description string
	Rating      float64
	InStock     bool
}

// Validate 校验字段
// 业务规则:
// 1. 书名、作者、分类不能为空
// 2. 价格必须>0
// 3. 评分在0-5之间
func (f Fields) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(f.Author) == "" {
		return ErrAuthorRequired
	}
	if strings.TrimSpace(f.Category) == "" {
		return ErrCategoryRequired
	}
	if !f.Price.IsPositive() {
		return ErrInvalidPrice
	}
	if f.Rating < MinRating || f.Rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

// NewBook 创建新图书(工厂方法)
func NewBook(id string, f Fields) (*Book, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	b := &Book{ID: id}
	b.set(f)
	return b, nil
}

// Apply 用表单字段整体替换图书信息(ID保持不变)
func (b *Book) Apply(f Fields) error {
	if err := f.Validate(); err != nil {
		return err
	}
	b.set(f)
	return nil
}

// Fields 导出当前可编辑字段
func (b *Book) Fields() Fields {
	return Fields{
		Title:       b.Title,
		Author:      b.Author,
		Price:       b.Price,
		Category:    b.Category,
		Cover:       b.Cover,
		Description: b.Description,
		Rating:      b.Rating,
		InStock:     b.InStock,
	}
}

func (b *Book) set(f Fields) {
	b.Title = strings.TrimSpace(f.Title)
	b.Author = strings.TrimSpace(f.Author)
	b.Price = f.Price
	b.Category = f.Category
	b.Cover = f.Cover
	b.Description = f.Description
	b.Rating = f.Rating
	b.InStock = f.InStock
}
