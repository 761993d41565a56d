package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/community/backend/docs"
	"github.com/community/backend/internal/bootstrap"
	"github.com/community/backend/internal/infrastructure/auth"
	"github.com/community/backend/internal/infrastructure/config"
	"github.com/community/backend/internal/infrastructure/logger"
	"github.com/community/backend/internal/infrastructure/migration"
	"github.com/community/backend/internal/infrastructure/persistence"
	"github.com/community/backend/internal/infrastructure/scheduler"
	"github.com/community/backend/internal/infrastructure/telemetry"
	"github.com/community/backend/internal/interfaces/http/handler"
	"github.com/community/backend/internal/interfaces/http/middleware"
	"github.com/community/backend/internal/interfaces/http/router"
	"github.com/community/backend/internal/interfaces/web"
	"github.com/community/backend/internal/interfaces/web/apiclient"
	"github.com/community/backend/migrations"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry starts before anything that emits spans or metrics
	tel, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()
	if tel.Logs.IsEnabled() {
		bridge := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: tel.Logs,
			Level:          logger.ParseLevel(cfg.Log.Level),
		})
		if log, err = logger.New(logCfg, bridge); err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Community Support Platform",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver))

	if cfg.Telemetry.DBTraceEnabled {
		dbSystem := "postgresql"
		if db.Driver == config.DriverSQLite {
			dbSystem = "sqlite"
		}
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        dbSystem,
		}, log)
		if err := plugin.Register(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB", zap.Error(err))
	}
	if tel.Meter.IsEnabled() {
		reg, err := telemetry.RegisterPoolMetrics(tel.Meter.Meter("db.pool"), sqlDB.Stats)
		if err != nil {
			log.Warn("Failed to register pool metrics", zap.Error(err))
		} else {
			defer func() { _ = reg.Unregister() }()
		}
	}

	// Schema
	migrator, err := migration.NewEmbedded(sqlDB, db.Driver, migrations.FS, log)
	if err != nil {
		log.Fatal("Failed to load migrations", zap.Error(err))
	}
	if err := migrator.Up(); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Token blacklist: Redis when configured, process memory otherwise
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := redisBlacklist.Close(); err != nil {
				log.Error("Error closing redis", zap.Error(err))
			}
		}()
		blacklist = redisBlacklist
		log.Info("Token blacklist backed by redis", zap.String("addr", cfg.Redis.RedisAddr()))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Application services
	services := bootstrap.NewServices(db.DB)
	authService := bootstrap.NewAuthService(db.DB, cfg, blacklist, log)

	if cfg.Auth.AdminEmail != "" {
		created, err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
		if err != nil {
			log.Fatal("Failed to bootstrap admin account", zap.Error(err))
		}
		if created {
			log.Info("Admin account created", zap.String("email", cfg.Auth.AdminEmail))
		}
	}

	purger, err := scheduler.NewSessionPurger(scheduler.SessionPurgerConfig{
		Schedule: cfg.Auth.SessionPurgeSchedule,
	}, authService, log)
	if err != nil {
		log.Fatal("Failed to create session purger", zap.Error(err))
	}
	purger.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := purger.Stop(stopCtx); err != nil {
			log.Error("Error stopping session purger", zap.Error(err))
		}
	}()

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Server span per request (no-op when telemetry is off)
	// 3. Recovery - Catch panics
	// 4. Logger - Log requests
	// 5. Metrics and profiling labels
	// 6. Security headers, CORS and body limit
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
		SkipPaths:   []string{"/health", "/metrics"},
	}))
	engine.Use(middleware.SpanAttributes())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: tel.Meter,
		Logger:        log,
		Enabled:       cfg.Telemetry.MetricsEnabled,
	}))
	engine.Use(middleware.Profiling(middleware.ProfilingConfig{
		Enabled:   cfg.Telemetry.ProfilingEnabled,
		SkipPaths: []string{"/health", "/metrics"},
	}))

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.Cookie.Secure
	engine.Use(middleware.SecureWithConfig(security))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// System routes
	systemHandler := handler.NewSystemHandler(db, cfg.App.Name)
	engine.GET("/health", systemHandler.Health)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	docs.SwaggerInfo.Title = cfg.App.Name + " API"
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	// JSON API
	cookie := middleware.NewSessionCookie(cfg.Cookie)
	bootstrap.RegisterAPI(engine, bootstrap.API{
		Services:     services,
		AuthService:  authService,
		Cookie:       cookie,
		Logger:       log,
		LoginLimiter: middleware.NewRateLimiter(cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateBurst),
		Extra:        []router.RouteRegistrar{systemHandler.Routes()},
	})

	// Server-rendered pages, calling the API over HTTP
	clientMetrics, err := apiclient.NewMetrics(registry)
	if err != nil {
		log.Fatal("Failed to register API client metrics", zap.Error(err))
	}
	client, err := apiclient.New(apiclient.Config{
		BaseURL:    cfg.Web.APIBaseURL,
		Timeout:    cfg.Web.APITimeout,
		CookieName: cookie.Name(),
		Breaker: apiclient.BreakerConfig{
			MaxRequests:      cfg.Web.BreakerMaxRequests,
			Interval:         cfg.Web.BreakerInterval,
			Timeout:          cfg.Web.BreakerTimeout,
			FailureThreshold: cfg.Web.BreakerFailureThreshold,
			MinRequests:      cfg.Web.BreakerMinRequests,
		},
		Metrics: clientMetrics,
		Logger:  log.Named("apiclient"),
	})
	if err != nil {
		log.Fatal("Failed to create API client", zap.Error(err))
	}
	defer client.Close()

	pages := web.New(web.Config{
		Client:  client,
		Cookie:  cookie,
		AppName: cfg.App.Name,
		Logger:  log,
	})
	if err := pages.Register(engine); err != nil {
		log.Fatal("Failed to load page templates", zap.Error(err))
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("api", cfg.Web.APIBaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
