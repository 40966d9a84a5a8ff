package book

import (
	"iter"
	"slices"
	"strconv"
	"strings"
)

// Filter 图书列表筛选条件
// Query 对书名、作者、分类做不区分大小写的子串匹配
// Category 精确匹配分类名
// 两个条件同时给出时取交集,都为空时返回全部
type Filter struct {
	Query    string
	Category string
}

// Matches 判断图书是否满足筛选条件
func (f Filter) Matches(b Book) bool {
	if f.Category != "" && b.Category != f.Category {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(b.Title), q) ||
		strings.Contains(strings.ToLower(b.Author), q) ||
		strings.Contains(strings.ToLower(b.Category), q)
}

// Select 返回一个惰性的筛选视图
// 每次range都会从头遍历books,可以重复使用
func Select(books []Book, f Filter) iter.Seq[Book] {
	return func(yield func(Book) bool) {
		for _, b := range books {
			if !f.Matches(b) {
				continue
			}
			if !yield(b) {
				return
			}
		}
	}
}

// NextID 分配新图书ID
// 规则:count+1;删除过图书后该号码可能仍被占用,此时顺延到第一个空闲号码
func NextID(books []Book) string {
	used := make(map[string]struct{}, len(books))
	for _, b := range books {
		used[b.ID] = struct{}{}
	}
	n := len(books) + 1
	for {
		id := strconv.Itoa(n)
		if _, taken := used[id]; !taken {
			return id
		}
		n++
	}
}

// Related 同分类的其他图书(详情页"相关推荐")
func Related(books []Book, target Book, limit int) []Book {
	out := make([]Book, 0, limit)
	for _, b := range books {
		if len(out) >= limit {
			break
		}
		if b.ID != target.ID && b.Category == target.Category {
			out = append(out, b)
		}
	}
	return out
}

// Featured 首页推荐:目录中的前n本
func Featured(books []Book, n int) []Book {
	if n < 0 || n > len(books) {
		n = len(books)
	}
	return slices.Clone(books[:n])
}
