//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 修改Provider后运行 `wire gen ./cmd/storefront` 重新生成wire_gen.go

package main

import (
	"context"
	"log/slog"

	"github.com/google/wire"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
)

// storageSet 快照存储:后端选择、熔断器、镜像
var storageSet = wire.NewSet(
	provideBackend,
	provideBreaker,
	provideMirror,
)

// sessionSet 认证相关
var sessionSet = wire.NewSet(
	provideJWTManager,
	provideHasher,
)

// httpSet 接口层
var httpSet = wire.NewSet(
	provideGinEngine,
	provideServer,
)

// InitializeApp 组装整个应用
// 返回的cleanup按创建的逆序释放资源(先停MQ,再刷完快照队列)
func InitializeApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, func(), error) {
	wire.Build(
		storageSet,
		sessionSet,
		provideNotifiers,
		provideStorefront,
		httpSet,
		newApp,
	)
	return nil, nil, nil
}
