package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mirror"
)

func newMockStore(t *testing.T) (*KVStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewKVStore(db), mock
}

func TestKVStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("读取已有快照", func(t *testing.T) {
		store, mock := newMockStore(t)
		rows := sqlmock.NewRows([]string{"snapshot_key", "snapshot_value", "updated_at"}).
			AddRow("books_data", []byte(`[]`), time.Now())
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `kv_snapshots` WHERE snapshot_key = ?")).
			WillReturnRows(rows)

		got, err := store.Get(ctx, "books_data")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("不存在映射为ErrKeyNotFound", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `kv_snapshots`")).
			WillReturnRows(sqlmock.NewRows([]string{"snapshot_key", "snapshot_value", "updated_at"}))

		_, err := store.Get(ctx, "orders_data")
		assert.ErrorIs(t, err, mirror.ErrKeyNotFound)
	})
}

func TestKVStore_SetMany(t *testing.T) {
	ctx := context.Background()

	t.Run("单个事务内upsert", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `kv_snapshots`")).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := store.SetMany(ctx, map[string][]byte{
			"books_data":      []byte(`[]`),
			"categories_data": []byte(`[]`),
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("写入失败回滚", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `kv_snapshots`")).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := store.SetMany(ctx, map[string][]byte{"books_data": []byte(`[]`)})
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("空批次不访问数据库", func(t *testing.T) {
		store, mock := newMockStore(t)
		require.NoError(t, store.SetMany(ctx, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
