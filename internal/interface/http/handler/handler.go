// Package handler HTTP处理器
//
// 处理器只做三件事:绑定参数、调用门面、组装响应。
// 业务校验与用户通知都在storefront门面里完成。
package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/response"
)

// bindError 参数绑定失败时的统一响应
func bindError(c *gin.Context, err error) {
	response.Error(c, apperrors.ErrBindError.WithDescription("%s", err.Error()))
}
