package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/pkg/logger"
	"github.com/xiebiao/storefront/pkg/tracing"
)

// main 主程序入口
// 1. 加载配置 2. 初始化日志与链路追踪 3. Wire组装应用 4. 启动HTTP服务 5. 优雅关闭
func main() {
	configPath := flag.String("config", "", "配置文件路径(默认查找./config/config.yaml)")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 日志
	lg, closer, err := logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 链路追踪(可选)
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			lg.Warn("tracing disabled", "error", err)
		} else {
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdown(sctx)
			}()
		}
	}

	// 4. 组装应用
	app, cleanup, err := InitializeApp(ctx, cfg, lg)
	if err != nil {
		lg.Error("initialize app failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// 5. 启动服务
	errCh := make(chan error, 1)
	go func() {
		lg.Info("server started",
			"addr", cfg.Server.Addr(),
			"mode", cfg.Server.Mode,
			"storage", cfg.Storage.Driver,
		)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		lg.Info("shutting down")
	case err := <-errCh:
		lg.Error("server failed", "error", err)
	}

	// 6. 优雅关闭:先停止接收请求,cleanup再把快照队列写完
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Server.Shutdown(sctx); err != nil {
		lg.Error("server shutdown failed", "error", err)
	}
}
