package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/storefront/internal/application/storefront"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/metrics"
	"github.com/xiebiao/storefront/pkg/response"
)

// RouterOptions 路由开关
type RouterOptions struct {
	Mode        string // gin模式: debug | release | test
	MetricsPath string // 为空时不暴露指标
	Swagger     bool
	Tracing     bool
	CORS        middleware.CORSConfig
}

// NewRouter 组装gin引擎
// 路由分三层:公开接口、登录接口(RequireAuth)、管理接口(RequireAuth+RequireAdmin)
func NewRouter(sf *storefront.Storefront, opts RouterOptions, log *slog.Logger) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	r := gin.New()

	// ====== 步骤1:全局中间件 ======
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(opts.CORS))
	if opts.Tracing {
		r.Use(middleware.Tracing())
	}

	// ====== 步骤2:运维接口 ======
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})
	if opts.MetricsPath != "" {
		r.GET(opts.MetricsPath, gin.WrapH(metrics.Handler()))
	}
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// ====== 步骤3:业务接口 ======
	auth := middleware.NewAuthMiddleware(sf)
	books := NewBookHandler(sf)
	categories := NewCategoryHandler(sf)
	cart := NewCartHandler(sf)
	orders := NewOrderHandler(sf)
	sessions := NewSessionHandler(sf)
	notices := NewNoticeHandler(sf)

	v1 := r.Group("/api/v1")
	{
		// 公开
		v1.GET("/books", books.ListBooks)
		v1.GET("/books/featured", books.Featured)
		v1.GET("/books/:id", books.GetBook)
		v1.GET("/books/:id/related", books.Related)
		v1.GET("/categories", categories.List)

		v1.GET("/cart", cart.Get)
		v1.POST("/cart/items", cart.AddItem)
		v1.PUT("/cart/items/:book_id", cart.SetQuantity)
		v1.DELETE("/cart/items/:book_id", cart.RemoveItem)

		v1.POST("/orders", orders.Checkout)
		v1.GET("/notices", notices.Recent)

		v1.POST("/session/login", sessions.Login)
		v1.POST("/session/register", sessions.Register)

		// 需要登录
		authorized := v1.Group("")
		authorized.Use(auth.RequireAuth())
		{
			authorized.GET("/session", sessions.Current)
			authorized.POST("/session/logout", sessions.Logout)
			authorized.GET("/orders/mine", orders.MyOrders)
		}

		// 管理员
		admin := v1.Group("")
		admin.Use(auth.RequireAuth(), auth.RequireAdmin())
		{
			admin.POST("/books", books.CreateBook)
			admin.PUT("/books/:id", books.UpdateBook)
			admin.DELETE("/books/:id", books.DeleteBook)

			admin.POST("/categories", categories.Create)
			admin.PUT("/categories/:name", categories.Rename)
			admin.DELETE("/categories/:name", categories.Delete)

			admin.GET("/orders", orders.List)
			admin.GET("/orders/:id", orders.Get)
			admin.PUT("/orders/:id/status", orders.SetStatus)
		}
	}

	return r
}
