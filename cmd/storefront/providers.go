package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/storefront/internal/application/notify"
	"github.com/xiebiao/storefront/internal/application/session"
	"github.com/xiebiao/storefront/internal/application/storefront"
	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/infrastructure/config"
	infranotify "github.com/xiebiao/storefront/internal/infrastructure/notify"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mirror"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/sqlite"
	"github.com/xiebiao/storefront/internal/interface/http/handler"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/circuitbreaker"
	"github.com/xiebiao/storefront/pkg/jwt"
	"github.com/xiebiao/storefront/pkg/metrics"
	"github.com/xiebiao/storefront/pkg/mq"
)

// App 组装完成的应用
type App struct {
	Server     *http.Server
	Storefront *storefront.Storefront
}

// backend 快照后端
// revoker为空时会话黑名单使用进程内实现
type backend struct {
	store   mirror.Store
	revoker session.Revoker
	driver  string
}

// ========================================
// Custom Providers
// ========================================

// provideBackend 按storage.driver选择快照后端
// 外部存储连不上时降级到内存存储,店面照常可用,只是重启后数据丢失
func provideBackend(ctx context.Context, cfg *config.Config, log *slog.Logger) backend {
	fallback := func(err error) backend {
		log.Warn("snapshot backend unavailable, falling back to memory",
			"driver", cfg.Storage.Driver, "error", err)
		return backend{store: mirror.NewMemoryStore(), driver: config.DriverMemory}
	}

	switch cfg.Storage.Driver {
	case config.DriverRedis:
		client, err := redis.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return fallback(err)
		}
		return backend{
			store:   redis.NewKVStore(client),
			revoker: redis.NewTokenBlacklist(client, cfg.Storage.KeyPrefix),
			driver:  config.DriverRedis,
		}

	case config.DriverMySQL:
		db, err := mysql.NewDB(cfg, log)
		if err != nil {
			return fallback(err)
		}
		return backend{store: mysql.NewKVStore(db), driver: config.DriverMySQL}

	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return fallback(err)
		}
		log.Info("sqlite opened", "path", cfg.SQLite.Path)
		return backend{store: store, driver: config.DriverSQLite}

	default:
		return backend{store: mirror.NewMemoryStore(), driver: config.DriverMemory}
	}
}

// provideBreaker 快照写入熔断器,状态变化同步到指标
func provideBreaker(cfg *config.Config, log *slog.Logger) *circuitbreaker.CircuitBreaker {
	metrics.Init()
	bc := cfg.Storage.Breaker
	return circuitbreaker.New("snapshot", circuitbreaker.Settings{
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: circuitbreaker.ConsecutiveFailures(bc.MaxFailures),
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
}

// provideMirror 启动镜像写协程,cleanup时等待队列写完并关闭后端
func provideMirror(cfg *config.Config, b backend, breaker *circuitbreaker.CircuitBreaker, log *slog.Logger) (*mirror.Mirror, func()) {
	m := mirror.New(b.store, mirror.Options{
		KeyPrefix:    cfg.Storage.KeyPrefix,
		WriteTimeout: cfg.Storage.WriteTimeout,
		QueueSize:    cfg.Storage.QueueSize,
		Breaker:      breaker,
		Logger:       log,
	})
	log.Info("snapshot mirror started", "driver", b.driver, "key_prefix", cfg.Storage.KeyPrefix)

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.Close(ctx); err != nil {
			log.Error("close mirror failed", "error", err)
		}
	}
	return m, cleanup
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpire)
}

func provideHasher(cfg *config.Config) user.PasswordHasher {
	return user.NewBcryptHasher(cfg.Storefront.BcryptCost)
}

// provideNotifiers 额外的通知出口
// MQ未启用或连接失败时返回空列表,通知仍会进入最近通知列表和日志
func provideNotifiers(cfg *config.Config, log *slog.Logger) ([]notify.Notifier, func()) {
	if !cfg.MQ.Enabled {
		return nil, func() {}
	}

	pub, err := mq.Dial(cfg.MQ.URL, cfg.MQ.Exchange)
	if err != nil {
		log.Warn("rabbitmq unavailable, notices will not be published", "error", err)
		return nil, func() {}
	}
	log.Info("rabbitmq connected", "exchange", cfg.MQ.Exchange)

	cleanup := func() {
		if err := pub.Close(); err != nil {
			log.Error("close rabbitmq failed", "error", err)
		}
	}
	return []notify.Notifier{infranotify.NewMQNotifier(pub, log)}, cleanup
}

func provideStorefront(
	ctx context.Context,
	cfg *config.Config,
	m *mirror.Mirror,
	b backend,
	hasher user.PasswordHasher,
	tokens *jwt.Manager,
	notifiers []notify.Notifier,
	log *slog.Logger,
) (*storefront.Storefront, error) {
	sc := cfg.Storefront
	return storefront.Bootstrap(ctx, storefront.Config{
		StrictStock:       sc.StrictStock,
		StrictTransitions: sc.StrictTransitions,
		FeaturedCount:     sc.FeaturedCount,
		RelatedCount:      sc.RelatedCount,
		NoticeHistory:     sc.NoticeHistory,
	}, storefront.Deps{
		Mirror:    m,
		Hasher:    hasher,
		Tokens:    tokens,
		Revoker:   b.revoker,
		Notifiers: notifiers,
		Logger:    log,
	})
}

// provideGinEngine 创建并配置Gin引擎
// Swagger只在debug模式暴露
func provideGinEngine(cfg *config.Config, sf *storefront.Storefront, log *slog.Logger) *gin.Engine {
	opts := handler.RouterOptions{
		Mode:    cfg.Server.Mode,
		Swagger: cfg.Server.Mode == gin.DebugMode,
		Tracing: cfg.Tracing.Enabled,
		CORS: middleware.CORSConfig{
			Enabled:          cfg.CORS.Enabled,
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowMethods:     cfg.CORS.AllowMethods,
			AllowHeaders:     cfg.CORS.AllowHeaders,
			ExposeHeaders:    cfg.CORS.ExposeHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		},
	}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
	}
	return handler.NewRouter(sf, opts, log)
}

func provideServer(cfg *config.Config, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

func newApp(server *http.Server, sf *storefront.Storefront) *App {
	return &App{Server: server, Storefront: sf}
}
