package dto

import (
	"github.com/xiebiao/storefront/internal/application/storefront"
	"github.com/xiebiao/storefront/internal/domain/cart"
)

// AddCartItemRequest 加入购物车
type AddCartItemRequest struct {
	BookID   string `json:"bookId" binding:"required" example:"1"`
	Quantity int    `json:"quantity" binding:"omitempty,min=1" example:"1"` // 省略时为1
}

// SetQuantityRequest 修改数量,0表示移除
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0" example:"2"`
}

type CartItemResponse struct {
	Book     BookResponse `json:"book"`
	Quantity int          `json:"quantity"`
	Subtotal string       `json:"subtotal"`
}

type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	Total     string             `json:"total" example:"49.98"`
	ItemCount int                `json:"itemCount" example:"2"`
}

func newCartItems(items []cart.Item) []CartItemResponse {
	out := make([]CartItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, CartItemResponse{
			Book:     NewBookResponse(it.Book),
			Quantity: it.Quantity,
			Subtotal: it.Subtotal().StringFixed(2),
		})
	}
	return out
}

func NewCartResponse(v storefront.CartView) CartResponse {
	return CartResponse{
		Items:     newCartItems(v.Items),
		Total:     v.Total.StringFixed(2),
		ItemCount: v.ItemCount,
	}
}
