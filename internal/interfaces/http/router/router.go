package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/infrastructure/auth"
	"github.com/canteen/backend/internal/infrastructure/config"
	"github.com/canteen/backend/internal/infrastructure/logger"
	"github.com/canteen/backend/internal/infrastructure/telemetry"
	"github.com/canteen/backend/internal/interfaces/http/handler"
	"github.com/canteen/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Theater  *handler.TheaterHandler
	User     *handler.UserHandler
	Role     *handler.RoleHandler
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
	Menu     *handler.MenuHandler
	Table    *handler.TableHandler
	Order    *handler.OrderHandler
	Stock    *handler.StockHandler
	Export   *handler.ExportHandler
	Job      *handler.JobHandler
}

// New assembles the gin engine with the full middleware chain and all
// routes mounted.
func New(
	cfg *config.Config,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	meterProvider *telemetry.MeterProvider,
	handlers Handlers,
	log *zap.Logger,
) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}
	engine.Use(middleware.RequestID())
	if cfg.Telemetry.TracingEnabled {
		engine.Use(otelgin.Middleware(cfg.App.Name))
	}
	engine.Use(middleware.HTTPMetrics(meterProvider))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORS(cfg.HTTP))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}
	engine.Use(middleware.Auth(jwtService, blacklist, middleware.AuthConfig{
		SkipPaths: []string{
			"/health",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		SkipPrefixes: []string{"/api/v1/public/"},
	}, log))

	v1 := engine.Group("/api/v1")

	// Customer endpoints, authorized by QR token alone.
	public := v1.Group("/public")
	{
		public.GET("/menu/:token", handlers.Menu.GetPublicMenu)
		public.POST("/orders", handlers.Order.PlacePublicOrder)
	}

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", handlers.Auth.Login)
		authGroup.POST("/refresh", handlers.Auth.Refresh)
		authGroup.POST("/logout", handlers.Auth.Logout)
		authGroup.POST("/change-password", handlers.Auth.ChangePassword)
	}

	theaters := v1.Group("/theaters")
	{
		theaters.POST("", middleware.RequirePermission("theater:write"), handlers.Theater.Create)
		theaters.GET("", middleware.RequirePermission("theater:read"), handlers.Theater.List)
		theaters.GET("/:id", middleware.RequirePermission("theater:read"), handlers.Theater.Get)
		theaters.PUT("/:id", middleware.RequirePermission("theater:write"), handlers.Theater.Update)
		theaters.PUT("/:id/config", middleware.RequirePermission("theater:write"), handlers.Theater.UpdateConfig)
		theaters.POST("/:id/activate", middleware.RequirePermission("theater:write"), handlers.Theater.Activate)
		theaters.POST("/:id/deactivate", middleware.RequirePermission("theater:write"), handlers.Theater.Deactivate)
		theaters.POST("/:id/suspend", middleware.RequirePermission("theater:write"), handlers.Theater.Suspend)
		theaters.DELETE("/:id", middleware.RequirePermission("theater:write"), handlers.Theater.Delete)
	}

	users := v1.Group("/users")
	{
		users.POST("", middleware.RequirePermission("user:write"), handlers.User.Create)
		users.GET("", middleware.RequirePermission("user:read"), handlers.User.List)
		users.GET("/:id", middleware.RequirePermission("user:read"), handlers.User.Get)
		users.PUT("/:id", middleware.RequirePermission("user:write"), handlers.User.Update)
		users.POST("/:id/activate", middleware.RequirePermission("user:write"), handlers.User.Activate)
		users.POST("/:id/deactivate", middleware.RequirePermission("user:write"), handlers.User.Deactivate)
		users.POST("/:id/unlock", middleware.RequirePermission("user:write"), handlers.User.Unlock)
		users.POST("/:id/reset-password", middleware.RequirePermission("user:write"), handlers.User.ResetPassword)
		users.PUT("/:id/roles", middleware.RequirePermission("user:write"), handlers.User.AssignRoles)
		users.DELETE("/:id", middleware.RequirePermission("user:write"), handlers.User.Delete)
	}

	roles := v1.Group("/roles")
	{
		roles.POST("", middleware.RequirePermission("role:write"), handlers.Role.Create)
		roles.GET("", middleware.RequirePermission("role:read"), handlers.Role.List)
		roles.GET("/:id", middleware.RequirePermission("role:read"), handlers.Role.Get)
		roles.PUT("/:id", middleware.RequirePermission("role:write"), handlers.Role.Update)
		roles.POST("/:id/enable", middleware.RequirePermission("role:write"), handlers.Role.Enable)
		roles.POST("/:id/disable", middleware.RequirePermission("role:write"), handlers.Role.Disable)
		roles.DELETE("/:id", middleware.RequirePermission("role:write"), handlers.Role.Delete)
	}

	categories := v1.Group("/categories")
	{
		categories.POST("", middleware.RequirePermission("catalog:write"), handlers.Category.Create)
		categories.GET("", middleware.RequirePermission("catalog:read"), handlers.Category.List)
		categories.GET("/:id", middleware.RequirePermission("catalog:read"), handlers.Category.Get)
		categories.PUT("/:id", middleware.RequirePermission("catalog:write"), handlers.Category.Update)
		categories.POST("/:id/activate", middleware.RequirePermission("catalog:write"), handlers.Category.Activate)
		categories.POST("/:id/deactivate", middleware.RequirePermission("catalog:write"), handlers.Category.Deactivate)
		categories.DELETE("/:id", middleware.RequirePermission("catalog:write"), handlers.Category.Delete)
	}

	products := v1.Group("/products")
	{
		products.POST("", middleware.RequirePermission("catalog:write"), handlers.Product.Create)
		products.POST("/import", middleware.RequirePermission("catalog:write"), handlers.Product.Import)
		products.GET("", middleware.RequirePermission("catalog:read"), handlers.Product.List)
		products.GET("/:id", middleware.RequirePermission("catalog:read"), handlers.Product.Get)
		products.PUT("/:id", middleware.RequirePermission("catalog:write"), handlers.Product.Update)
		products.POST("/:id/activate", middleware.RequirePermission("catalog:write"), handlers.Product.Activate)
		products.POST("/:id/deactivate", middleware.RequirePermission("catalog:write"), handlers.Product.Deactivate)
		products.POST("/:id/discontinue", middleware.RequirePermission("catalog:write"), handlers.Product.Discontinue)
		products.DELETE("/:id", middleware.RequirePermission("catalog:write"), handlers.Product.Delete)
	}

	v1.GET("/menu", middleware.RequirePermission("catalog:read"), handlers.Menu.GetMenu)

	tables := v1.Group("/tables")
	{
		tables.POST("", middleware.RequirePermission("table:write"), handlers.Table.Create)
		tables.GET("", middleware.RequirePermission("table:read"), handlers.Table.List)
		tables.GET("/:id", middleware.RequirePermission("table:read"), handlers.Table.Get)
		tables.PUT("/:id", middleware.RequirePermission("table:write"), handlers.Table.Update)
		tables.POST("/:id/rotate-token", middleware.RequirePermission("table:write"), handlers.Table.RotateToken)
		tables.GET("/:id/qrcode", middleware.RequirePermission("table:read"), handlers.Table.QRCode)
		tables.GET("/:id/open-orders", middleware.RequirePermission("order:read"), handlers.Order.ListOpenByTable)
		tables.POST("/:id/activate", middleware.RequirePermission("table:write"), handlers.Table.Activate)
		tables.POST("/:id/deactivate", middleware.RequirePermission("table:write"), handlers.Table.Deactivate)
		tables.DELETE("/:id", middleware.RequirePermission("table:write"), handlers.Table.Delete)
	}

	orders := v1.Group("/orders")
	{
		orders.POST("", middleware.RequirePermission("order:write"), handlers.Order.PlaceStaffOrder)
		orders.GET("", middleware.RequirePermission("order:read"), handlers.Order.List)
		orders.GET("/by-number/:number", middleware.RequirePermission("order:read"), handlers.Order.GetByNumber)
		orders.GET("/:id", middleware.RequirePermission("order:read"), handlers.Order.Get)
		orders.POST("/:id/confirm", middleware.RequirePermission("order:manage"), handlers.Order.Confirm)
		orders.POST("/:id/prepare", middleware.RequirePermission("order:manage"), handlers.Order.StartPreparing)
		orders.POST("/:id/deliver", middleware.RequirePermission("order:manage"), handlers.Order.MarkDelivered)
		orders.POST("/:id/pay", middleware.RequirePermission("order:manage"), handlers.Order.Pay)
		orders.POST("/:id/complete", middleware.RequirePermission("order:manage"), handlers.Order.Complete)
		orders.POST("/:id/cancel", middleware.RequirePermission("order:manage"), handlers.Order.Cancel)
	}

	stock := v1.Group("/stock")
	{
		stock.POST("/entries", middleware.RequirePermission("stock:write"), handlers.Stock.AddEntry)
		stock.GET("/months", middleware.RequirePermission("stock:read"), handlers.Stock.GetMonth)
		stock.GET("/months/:id", middleware.RequirePermission("stock:read"), handlers.Stock.GetDocument)
		stock.PUT("/months/:id/entries/:entryId", middleware.RequirePermission("stock:write"), handlers.Stock.UpdateEntry)
		stock.DELETE("/months/:id/entries/:entryId", middleware.RequirePermission("stock:write"), handlers.Stock.RemoveEntry)
		stock.DELETE("/months/:id", middleware.RequirePermission("stock:write"), handlers.Stock.DeleteMonth)
		stock.GET("/summary", middleware.RequirePermission("report:read"), handlers.Stock.MonthSummary)
		stock.GET("/expiring", middleware.RequirePermission("stock:read"), handlers.Stock.ExpiringLots)
		stock.GET("/export/ledger", middleware.RequirePermission("report:export"), handlers.Export.MonthLedger)
		stock.GET("/export/summary", middleware.RequirePermission("report:export"), handlers.Export.MonthSummary)
	}

	v1.POST("/jobs/daily-alerts", middleware.RequirePermission("job:trigger"), handlers.Job.TriggerDailyAlerts)

	return engine
}
