package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

// TokenBlacklist 已登出会话的黑名单
// 设计说明：
// 1. JWT是无状态的，登出后需要服务端记录失效的会话ID
// 2. Key设计：<prefix>revoked:{session_id}
// 3. 过期时间与Token剩余有效期一致，过期后自动清理
type TokenBlacklist struct {
	client *redis.Client
	prefix string
}

func NewTokenBlacklist(client *redis.Client, prefix string) *TokenBlacklist {
	return &TokenBlacklist{client: client, prefix: prefix}
}

func (b *TokenBlacklist) key(sessionID string) string {
	return fmt.Sprintf("%srevoked:%s", b.prefix, sessionID)
}

// Revoke 将会话加入黑名单
func (b *TokenBlacklist) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // 已过期的Token无需记录
	}
	if err := b.client.Set(ctx, b.key(sessionID), "revoked", ttl).Err(); err != nil {
		return apperrors.Wrap(err, "添加会话到黑名单失败")
	}
	return nil
}

// IsRevoked 检查会话是否已失效
func (b *TokenBlacklist) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := b.client.Exists(ctx, b.key(sessionID)).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "检查黑名单失败")
	}
	return n > 0, nil
}
