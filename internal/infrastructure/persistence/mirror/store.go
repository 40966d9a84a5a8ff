package mirror

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
)

// ErrKeyNotFound 键不存在
var ErrKeyNotFound = errors.New("mirror: key not found")

// Store 快照落地的KV存储
// 实现:MemoryStore(默认)、redis.KVStore、mysql.KVStore、sqlite.KVStore
type Store interface {
	// Get 读取键值,不存在返回ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// SetMany 原子地写入多个键(全部成功或全部失败)
	SetMany(ctx context.Context, entries map[string][]byte) error
	Close() error
}

// MemoryStore 进程内KV,相当于浏览器的localStorage
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range entries {
		s.data[k] = append([]byte(nil), v...)
	}
	return nil
}

// Keys 排序后的全部键(测试用)
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.data))
}

func (s *MemoryStore) Close() error { return nil }
