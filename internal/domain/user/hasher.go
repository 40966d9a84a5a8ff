package user

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// PasswordHasher 可插拔的凭证校验
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Compare 不匹配时返回ErrInvalidCredentials
	Compare(hash, plain string) error
}

// BcryptHasher bcrypt实现
// 学习要点：
// - bcrypt自动加盐，同一密码每次哈希结果不同
// - cost每+1耗时翻倍，测试里用bcrypt.MinCost
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher cost超出范围时回退到bcrypt.DefaultCost
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", apperrors.Wrap(err, "密码加密失败")
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Compare(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrHashTooShort) {
		return ErrInvalidCredentials
	}
	return apperrors.Wrap(err, "密码验证失败")
}
