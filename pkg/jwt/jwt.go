// Package jwt 会话令牌
//
// 登录/注册成功后签发HS256令牌,HTTP层凭它证明自己持有当前会话。
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// Manager 令牌签发与校验
type Manager struct {
	secret []byte
	issuer string
	expire time.Duration
	now    func() time.Time
}

// NewManager 创建令牌管理器
func NewManager(secret, issuer string, expire time.Duration) *Manager {
	return &Manager{secret: []byte(secret), issuer: issuer, expire: expire, now: time.Now}
}

// Claims 会话声明
// RegisteredClaims.ID是每次登录唯一的会话ID
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Token 签发结果
type Token struct {
	Value     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Issue 签发令牌
func (m *Manager) Issue(userID, email, role string) (*Token, error) {
	now := m.now()
	expiresAt := now.Add(m.expire)
	sessionID := uuid.NewString()

	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    m.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Token失败")
	}
	return &Token{Value: signed, SessionID: sessionID, ExpiresAt: expiresAt}, nil
}

// Parse 校验签名、签发者与有效期
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}
	if !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
