package mysql

import (
	"context"
	"errors"
	"maps"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mirror"
)

// KVStore 基于MySQL的快照存储
type KVStore struct {
	db *gorm.DB
	tx *TxManager
}

var _ mirror.Store = (*KVStore)(nil)

func NewKVStore(db *gorm.DB) *KVStore {
	return &KVStore{db: db, tx: NewTxManager(db)}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var model KVSnapshotModel
	err := getDB(ctx, s.db).Where("snapshot_key = ?", key).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, mirror.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.Value, nil
}

// SetMany 在一个事务里upsert全部键
// 教学要点:INSERT ... ON DUPLICATE KEY UPDATE,按键排序保证加锁顺序一致
func (s *KVStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}
	models := make([]KVSnapshotModel, 0, len(entries))
	for _, k := range slices.Sorted(maps.Keys(entries)) {
		models = append(models, KVSnapshotModel{Key: k, Value: entries[k]})
	}

	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		return getDB(ctx, s.db).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "snapshot_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"snapshot_value", "updated_at"}),
			}).
			Create(&models).Error
	})
}

func (s *KVStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
