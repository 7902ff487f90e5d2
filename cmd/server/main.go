package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/canteen/backend/docs"
	catalogapp "github.com/canteen/backend/internal/application/catalog"
	identityapp "github.com/canteen/backend/internal/application/identity"
	orderingapp "github.com/canteen/backend/internal/application/ordering"
	stockapp "github.com/canteen/backend/internal/application/stock"
	"github.com/canteen/backend/internal/infrastructure/auth"
	"github.com/canteen/backend/internal/infrastructure/cache"
	"github.com/canteen/backend/internal/infrastructure/config"
	"github.com/canteen/backend/internal/infrastructure/event"
	"github.com/canteen/backend/internal/infrastructure/logger"
	"github.com/canteen/backend/internal/infrastructure/mail"
	"github.com/canteen/backend/internal/infrastructure/persistence"
	"github.com/canteen/backend/internal/infrastructure/scheduler"
	"github.com/canteen/backend/internal/infrastructure/telemetry"
	"github.com/canteen/backend/internal/interfaces/http/handler"
	"github.com/canteen/backend/internal/interfaces/http/router"
)

//	@title			Canteen Backend API
//	@version		1.0
//	@description	Multi-theater canteen backend - menu, table ordering, and monthly stock ledger

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting canteen backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), 200*time.Millisecond)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis backs the menu cache and the token blacklist. When it is
	// unreachable the server still comes up on in-memory fallbacks, so a
	// cache outage never takes ordering down.
	var menuCache cache.MenuCache
	var blacklist auth.TokenBlacklist
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory cache and blacklist", zap.Error(err))
		menuCache = cache.NewInMemoryMenuCache()
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis", zap.Error(err))
			}
		}()
		menuCache = cache.NewRedisMenuCache(redisClient)
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		log.Info("Redis connected")
	}

	// Telemetry. Disabled providers are no-ops, so the wiring below is
	// unconditional.
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.TracingConfig{
		Enabled:           cfg.Telemetry.TracingEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.App.Name,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Repositories
	theaterRepo := persistence.NewGormTheaterRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	tableRepo := persistence.NewGormDiningTableRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	stockRepo := persistence.NewGormMonthlyStockRepository(db.DB)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(theaterRepo, userRepo, roleRepo, jwtService, blacklist,
		identityapp.DefaultAuthServiceConfig(), log)
	theaterService := identityapp.NewTheaterService(theaterRepo, userRepo, roleRepo, log)
	userService := identityapp.NewUserService(userRepo, roleRepo, log)
	roleService := identityapp.NewRoleService(roleRepo, log)

	menuService := catalogapp.NewMenuService(productRepo, categoryRepo, menuCache, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, menuService, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, menuService, log)
	productImportService := catalogapp.NewProductImportService(productRepo, categoryRepo, menuService, log)

	tableService := orderingapp.NewTableService(tableRepo, orderRepo, cfg.App.BaseURL, log)
	orderService := orderingapp.NewOrderService(orderRepo, tableRepo, productRepo, theaterRepo, eventBus, log)

	stockService := stockapp.NewStockService(stockRepo, productRepo, log)
	exportService := stockapp.NewExportService(stockService, log)

	var mailer mail.Mailer
	if cfg.Mail.Enabled {
		mailer, err = mail.NewSMTPMailer(cfg.Mail)
		if err != nil {
			log.Fatal("Failed to configure SMTP mailer", zap.Error(err))
		}
	} else {
		mailer = mail.NewLogMailer(log)
	}
	alertService := stockapp.NewAlertService(stockService, mailer, cfg.Scheduler.ExpiryWarningDays, log)

	// Confirmed orders deduct stock, cancellations return it.
	stockHandler := stockapp.NewOrderEventHandler(stockService, log)
	eventBus.Subscribe(stockHandler, stockHandler.EventTypes()...)

	if meterProvider.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter("canteen.business"))
		if err != nil {
			log.Fatal("Failed to create business metrics", zap.Error(err))
		}
		metricsHandler := telemetry.NewOrderMetricsHandler(businessMetrics)
		eventBus.Subscribe(metricsHandler, metricsHandler.EventTypes()...)
	}

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Daily stock alert scheduler
	dailyTrigger := scheduler.NewDailyTrigger(cfg.Scheduler, theaterRepo, alertService, log)
	if cfg.Scheduler.Enabled {
		if err := dailyTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start daily trigger", zap.Error(err))
		}
		defer func() {
			if err := dailyTrigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping daily trigger", zap.Error(err))
			}
		}()
		log.Info("Daily alert scheduler started",
			zap.Int("run_hour", cfg.Scheduler.RunHour),
			zap.Duration("check_interval", cfg.Scheduler.CheckInterval),
		)
	}

	engine := router.New(cfg, jwtService, blacklist, meterProvider, router.Handlers{
		Auth:     handler.NewAuthHandler(authService, userService),
		Theater:  handler.NewTheaterHandler(theaterService),
		User:     handler.NewUserHandler(userService),
		Role:     handler.NewRoleHandler(roleService),
		Category: handler.NewCategoryHandler(categoryService),
		Product:  handler.NewProductHandler(productService, productImportService),
		Menu:     handler.NewMenuHandler(menuService, tableService),
		Table:    handler.NewTableHandler(tableService),
		Order:    handler.NewOrderHandler(orderService),
		Stock:    handler.NewStockHandler(stockService),
		Export:   handler.NewExportHandler(exportService),
		Job:      handler.NewJobHandler(dailyTrigger, theaterRepo),
	}, log)

	engine.GET("/health", healthHandler(db))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
