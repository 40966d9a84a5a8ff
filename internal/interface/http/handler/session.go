package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/storefront/internal/application/storefront"
	"github.com/xiebiao/storefront/internal/interface/http/dto"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/response"
)

// SessionHandler 登录/注册/登出
type SessionHandler struct {
	sf *storefront.Storefront
}

func NewSessionHandler(sf *storefront.Storefront) *SessionHandler {
	return &SessionHandler{sf: sf}
}

// Login 登录
// @Summary      登录
// @Description  邮箱区分大小写;失败统一返回"Invalid email or password"
// @Tags         会话
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "邮箱和密码"
// @Success      200 {object} response.Response{data=dto.SessionResponse}
// @Router       /api/v1/session/login [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	s, err := h.sf.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewSessionResponse(s))
}

// Register 注册并自动登录
// @Summary      注册
// @Tags         会话
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} response.Response{data=dto.SessionResponse}
// @Router       /api/v1/session/register [post]
func (h *SessionHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	s, err := h.sf.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewSessionResponse(s))
}

// Current 当前会话
// @Summary      当前会话
// @Tags         会话
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.SessionResponse}
// @Router       /api/v1/session [get]
func (h *SessionHandler) Current(c *gin.Context) {
	response.Success(c, dto.NewSessionResponse(middleware.MustGetSession(c)))
}

// Logout 登出,同时清空购物车
// @Summary      登出
// @Tags         会话
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /api/v1/session/logout [post]
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.sf.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
