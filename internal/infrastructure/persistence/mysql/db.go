package mysql

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移快照表（AutoMigrate）
func NewDB(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	// 1. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 2. 连接数据库
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 3. 配置连接池
	// 学习要点：快照写入由单个后台worker串行执行，连接池不需要很大
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 4. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	log.Info("mysql connected", "host", cfg.Database.Host, "db", cfg.Database.DBName)

	// 5. 自动迁移
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&KVSnapshotModel{})
}

// KVSnapshotModel 集合快照表
// 设计说明：
// 1. 每行保存一个集合的整份JSON（books_data、orders_data等）
// 2. 键名避开MySQL保留字key，使用snapshot_key
type KVSnapshotModel struct {
	Key       string    `gorm:"column:snapshot_key;primaryKey;size:191;comment:快照键"`
	Value     []byte    `gorm:"column:snapshot_value;type:longblob;not null;comment:JSON快照"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (KVSnapshotModel) TableName() string {
	return "kv_snapshots"
}
