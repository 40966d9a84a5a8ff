package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/storefront/internal/application/storefront"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	sf *storefront.Storefront
}

func NewOrderHandler(sf *storefront.Storefront) *OrderHandler {
	return &OrderHandler{sf: sf}
}

// Checkout 结算当前购物车
// @Summary      下单
// @Description  未登录返回40100并提示"You need to be logged in to complete checkout";购物车为空返回40006
// @Tags         订单
// @Produce      json
// @Success      200 {object} response.Response{data=dto.OrderResponse}
// @Router       /api/v1/orders [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	// 登录校验在门面内完成,失败时同样会产生通知
	o, err := h.sf.Checkout(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewOrderResponse(o))
}

// MyOrders 当前用户的订单
// @Summary      我的订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.OrderResponse}}
// @Router       /api/v1/orders/mine [get]
func (h *OrderHandler) MyOrders(c *gin.Context) {
	orders, err := h.sf.MyOrders(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessList(c, dto.NewOrderList(orders))
}

// List 全部订单,最新在前
// @Summary      订单列表
// @Tags         订单管理
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=response.ListData{list=[]dto.OrderResponse}}
// @Router       /api/v1/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	response.SuccessList(c, dto.NewOrderList(h.sf.Orders(c.Request.Context())))
}

// Get 订单详情
// @Summary      订单详情
// @Tags         订单管理
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "订单号"
// @Success      200 {object} response.Response{data=dto.OrderResponse}
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.sf.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewOrderResponse(o))
}

// SetStatus 修改订单状态
// @Summary      修改订单状态
// @Description  status取值pending|processing|shipped|delivered|cancelled
// @Tags         订单管理
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string               true "订单号"
// @Param        request body dto.SetStatusRequest true "目标状态"
// @Success      200 {object} response.Response{data=dto.OrderResponse}
// @Router       /api/v1/orders/{id}/status [put]
func (h *OrderHandler) SetStatus(c *gin.Context) {
	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	o, err := h.sf.SetOrderStatus(c.Request.Context(), c.Param("id"), order.Status(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewOrderResponse(o))
}
