package dto

import (
	"time"

	"github.com/xiebiao/storefront/internal/application/session"
	"github.com/xiebiao/storefront/internal/domain/user"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"marawan.attallah@ejust.edu.eg"`
	Password string `json:"password" binding:"required" example:"123456789"`
}

// RegisterRequest 注册请求
// 邮箱格式、密码长度由领域层校验,返回与前端一致的提示
type RegisterRequest struct {
	Email    string `json:"email" binding:"required" example:"reader@example.com"`
	Password string `json:"password" binding:"required" example:"secret1"`
	Name     string `json:"name" binding:"required" example:"Book Lover"`
}

type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func NewUserInfo(u user.User) UserInfo {
	return UserInfo{ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role)}
}

// SessionResponse 登录/注册响应
type SessionResponse struct {
	User      UserInfo `json:"user"`
	Token     string   `json:"token"`
	StartedAt string   `json:"startedAt"`
	ExpiresAt string   `json:"expiresAt"`
}

func NewSessionResponse(s *session.Session) SessionResponse {
	return SessionResponse{
		User:      NewUserInfo(s.User),
		Token:     s.Token,
		StartedAt: s.StartedAt.Format(time.RFC3339),
		ExpiresAt: s.ExpiresAt.Format(time.RFC3339),
	}
}
