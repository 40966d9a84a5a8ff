package dto

import (
	"time"

	"github.com/xiebiao/storefront/internal/domain/order"
)

// SetStatusRequest 后台修改订单状态
type SetStatusRequest struct {
	Status string `json:"status" binding:"required" example:"shipped"`
}

type OrderResponse struct {
	ID            string             `json:"id" example:"004"`
	CustomerID    string             `json:"customerId"`
	CustomerName  string             `json:"customerName"`
	CustomerEmail string             `json:"customerEmail"`
	Items         []CartItemResponse `json:"items"`
	ItemCount     int                `json:"itemCount"`
	Total         string             `json:"total" example:"45.98"`
	Status        string             `json:"status" example:"pending"`
	CreatedAt     string             `json:"createdAt" example:"2024-01-15T10:30:00Z"`
}

func NewOrderResponse(o order.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Items:         newCartItems(o.Items),
		ItemCount:     o.ItemCount(),
		Total:         o.Total.StringFixed(2),
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
}

func NewOrderList(orders []order.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o))
	}
	return out
}
