package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength 注册时密码最短长度
const MinPasswordLength = 6

// Service 用户领域服务
// 设计说明：
// 1. 注册、登录的规则集中在这里，Auth Gate只负责会话
// 2. 依赖Repository与PasswordHasher接口，不依赖具体实现
type Service interface {
	// Register 注册普通用户
	Register(ctx context.Context, email, password, name string) (*User, error)

	// Login 校验凭证
	Login(ctx context.Context, email, password string) (*User, error)
}

type service struct {
	repo   Repository
	hasher PasswordHasher
}

// NewService 创建用户服务
func NewService(repo Repository, hasher PasswordHasher) Service {
	return &service{repo: repo, hasher: hasher}
}

// Register 用户注册
// 业务规则：
// 1. 邮箱格式校验
// 2. 密码长度>=6
// 3. 姓名不能为空
// 4. 邮箱不区分大小写唯一
// 5. 角色固定为user
func (s *service) Register(ctx context.Context, email, password, name string) (*User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	// 1. 参数校验
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	if name == "" {
		return nil, ErrNameRequired
	}

	// 2. 唯一性
	taken, err := s.repo.EmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailDuplicate
	}

	// 3. 密码哈希
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	// 4. 分配ID并保存
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	u := NewUser(NextID(all), email, hash, name)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login 用户登录
// 邮箱不存在和密码错误返回同一个错误
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, err
	}
	return u, nil
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// isValidEmail 邮箱格式校验
func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
