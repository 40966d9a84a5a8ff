package order

import (
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "Order not found")

	// ErrInvalidStatusTransition 单调策略下的非法流转
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "Invalid status transition")

	// ErrUnknownStatus 无法识别的状态值
	ErrUnknownStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "Unknown order status")

	// ErrEmptyCart 空购物车不能结账
	ErrEmptyCart = apperrors.New(apperrors.ErrCodeEmptyCart, "Your cart is empty")

	// ErrAuthRequired 结账需要登录
	ErrAuthRequired = apperrors.New(apperrors.ErrCodeUnauthorized, "Please log in").
			WithDescription("You need to be logged in to complete checkout")
)
