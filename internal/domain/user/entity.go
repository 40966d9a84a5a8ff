package user

import (
	"strconv"
)

// Role 用户角色
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 只保存密码哈希，明文只在登录/注册的调用栈里出现
// 2. 注册用户的角色固定为user，管理员账号来自种子数据
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
}

// NewUser 创建普通用户（工厂方法）
// passwordHash必须是PasswordHasher处理后的值
func NewUser(id, email, passwordHash, name string) *User {
	return &User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         RoleUser,
	}
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NextID 分配用户ID（count+1，已占用则顺延）
func NextID(users []User) string {
	used := make(map[string]struct{}, len(users))
	for _, u := range users {
		used[u.ID] = struct{}{}
	}
	for n := len(users) + 1; ; n++ {
		id := strconv.Itoa(n)
		if _, taken := used[id]; !taken {
			return id
		}
	}
}
