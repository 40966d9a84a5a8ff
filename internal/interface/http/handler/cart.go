package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/storefront/internal/application/storefront"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/pkg/response"
)

// CartHandler 购物车
// 购物车属于当前店面,不要求登录
type CartHandler struct {
	sf *storefront.Storefront
}

func NewCartHandler(sf *storefront.Storefront) *CartHandler {
	return &CartHandler{sf: sf}
}

// Get 查看购物车
// @Summary      查看购物车
// @Tags         购物车
// @Produce      json
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Router       /api/v1/cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	response.Success(c, dto.NewCartResponse(h.sf.Cart()))
}

// AddItem 加入购物车(已存在则数量累加)
// @Summary      加入购物车
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Param        request body dto.AddCartItemRequest true "图书与数量"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Router       /api/v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	view, err := h.sf.AddToCart(c.Request.Context(), req.BookID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCartResponse(view))
}

// SetQuantity 修改数量,0等同于移除
// @Summary      修改数量
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Param        book_id path string                 true "图书ID"
// @Param        request body dto.SetQuantityRequest true "数量"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Router       /api/v1/cart/items/{book_id} [put]
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req dto.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	view, err := h.sf.SetQuantity(c.Request.Context(), c.Param("book_id"), *req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewCartResponse(view))
}

// RemoveItem 移除条目(不存在时同样成功)
// @Summary      移除条目
// @Tags         购物车
// @Produce      json
// @Param        book_id path string true "图书ID"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Router       /api/v1/cart/items/{book_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	view := h.sf.RemoveFromCart(c.Request.Context(), c.Param("book_id"))
	response.Success(c, dto.NewCartResponse(view))
}
