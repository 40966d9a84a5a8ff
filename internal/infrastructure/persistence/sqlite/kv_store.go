package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mirror"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_snapshots(
  snapshot_key TEXT PRIMARY KEY,
  snapshot_value BLOB NOT NULL,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP
);`

// KVStore 嵌入式快照存储，单文件即可持久化
type KVStore struct {
	db *sqlx.DB
}

var _ mirror.Store = (*KVStore)(nil)

// Open 打开(或创建)数据库文件并建表
// path为":memory:"时只保留单连接，否则每个连接都是一个新的空库
func Open(path string) (*KVStore, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("打开SQLite失败: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("SQLite连接测试失败: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("创建快照表失败: %w", err)
	}
	return &KVStore{db: db}, nil
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.GetContext(ctx, &value, `SELECT snapshot_value FROM kv_snapshots WHERE snapshot_key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, mirror.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *KVStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const upsert = `
INSERT INTO kv_snapshots(snapshot_key, snapshot_value, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(snapshot_key) DO UPDATE SET
  snapshot_value = excluded.snapshot_value,
  updated_at = excluded.updated_at`

	for k, v := range entries {
		if _, err := tx.ExecContext(ctx, upsert, k, v); err != nil {
			return fmt.Errorf("写入%s失败: %w", k, err)
		}
	}
	return tx.Commit()
}

func (s *KVStore) Close() error {
	return s.db.Close()
}
