package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mirror"
)

// KVStore 基于Redis的快照存储
// 每个集合对应一个字符串键，值为整份JSON快照
type KVStore struct {
	client *redis.Client
}

var _ mirror.Store = (*KVStore)(nil)

func NewKVStore(client *redis.Client) *KVStore {
	return &KVStore{client: client}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, mirror.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// SetMany 使用MULTI/EXEC事务写入
// 学习要点：TxPipelined把多条SET包在同一个事务里，要么全部生效要么全部不生效
func (s *KVStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, k, v, 0)
		}
		return nil
	})
	return err
}

func (s *KVStore) Close() error {
	return s.client.Close()
}
