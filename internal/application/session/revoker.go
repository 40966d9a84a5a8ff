package session

import (
	"context"
	"sync"
	"time"
)

// Revoker 已失效会话的记录
// 单实例默认使用MemoryRevoker;多实例部署时用redis.TokenBlacklist共享
type Revoker interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// MemoryRevoker 进程内黑名单,过期项在查询时清理
type MemoryRevoker struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{expires: make(map[string]time.Time), now: time.Now}
}

func (r *MemoryRevoker) Revoke(_ context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expires[sessionID] = r.now().Add(ttl)
	return nil
}

func (r *MemoryRevoker) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.expires[sessionID]
	if !ok {
		return false, nil
	}
	if !r.now().Before(exp) {
		delete(r.expires, sessionID)
		return false, nil
	}
	return true, nil
}
