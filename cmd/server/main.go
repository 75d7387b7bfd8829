package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	communityapp "github.com/dormhub/backend/internal/application/community"
	eventapp "github.com/dormhub/backend/internal/application/event"
	housingapp "github.com/dormhub/backend/internal/application/housing"
	identityapp "github.com/dormhub/backend/internal/application/identity"
	inspectionapp "github.com/dormhub/backend/internal/application/inspection"
	"github.com/dormhub/backend/internal/domain/shared"
	"github.com/dormhub/backend/internal/infrastructure/auth"
	"github.com/dormhub/backend/internal/infrastructure/cache"
	"github.com/dormhub/backend/internal/infrastructure/config"
	"github.com/dormhub/backend/internal/infrastructure/event"
	"github.com/dormhub/backend/internal/infrastructure/logger"
	"github.com/dormhub/backend/internal/infrastructure/persistence"
	"github.com/dormhub/backend/internal/infrastructure/printing"
	"github.com/dormhub/backend/internal/infrastructure/scheduler"
	"github.com/dormhub/backend/internal/infrastructure/storage"
	"github.com/dormhub/backend/internal/infrastructure/telemetry"
	"github.com/dormhub/backend/internal/interfaces/http/handler"
	"github.com/dormhub/backend/internal/interfaces/http/middleware"
	"github.com/dormhub/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/dormhub/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			DormHub API
//	@version		1.0
//	@description	Dormitory management API: housing, maintenance, inspections and community events.

//	@contact.name	API Support
//	@contact.url	https://github.com/dormhub/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	baseLog, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	// Telemetry comes first so the logger can be bridged into the collector
	tel, err := telemetry.Setup(context.Background(), cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			baseLog.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()
	log := tel.BridgeLogger(baseLog, logger.ParseLevel(cfg.Log.Level))
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting DormHub backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Database.SlowThreshold)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:       cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:    cfg.Telemetry.DBLogFullSQL,
		SlowThreshold: cfg.Database.SlowThreshold,
		DBName:        cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Redis is optional; token revocation and idempotency fall back to memory
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis", zap.Error(err))
			}
		}()
		log.Info("Redis connected", zap.String("host", cfg.Redis.Host))
	} else {
		log.Warn("Redis not configured, using in-memory token blacklist and idempotency store")
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	buildingRepo := persistence.NewGormBuildingRepository(db.DB)
	floorRepo := persistence.NewGormFloorRepository(db.DB)
	roomRepo := persistence.NewGormRoomRepository(db.DB)
	placeRepo := persistence.NewGormPlaceRepository(db.DB)
	maintenanceRepo := persistence.NewGormMaintenanceRepository(db.DB)
	inspectionRepo := persistence.NewGormInspectionRepository(db.DB)
	eventRepo := persistence.NewGormEventRepository(db.DB)
	invitationRepo := persistence.NewGormInvitationRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Domain events are written to the outbox in the aggregate's transaction
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	userRepo.SetOutboxEventSaver(outboxPublisher)
	buildingRepo.SetOutboxEventSaver(outboxPublisher)
	roomRepo.SetOutboxEventSaver(outboxPublisher)
	placeRepo.SetOutboxEventSaver(outboxPublisher)
	maintenanceRepo.SetOutboxEventSaver(outboxPublisher)
	inspectionRepo.SetOutboxEventSaver(outboxPublisher)
	eventRepo.SetOutboxEventSaver(outboxPublisher)

	// Auth infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	tokenBlacklist := auth.NewTokenBlacklist(redisClient)

	// PDF reports and their archive
	renderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
		ExecPath:       cfg.Printing.ChromePath,
		DefaultTimeout: cfg.Printing.Timeout,
		MaxConcurrent:  cfg.Printing.MaxConcurrent,
		NoSandbox:      os.Geteuid() == 0,
		Logger:         log,
	})
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()
	reportGenerator, err := printing.NewReportGenerator(
		printing.NewTemplateEngine(), renderer, printing.ParsePaperSize(cfg.Printing.PaperSize), log)
	if err != nil {
		log.Fatal("Failed to initialize report generator", zap.Error(err))
	}

	var reportStorage inspectionapp.ReportStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare report bucket", zap.Error(err), zap.String("bucket", s3Storage.Bucket()))
		}
		cancel()
		reportStorage = s3Storage
		log.Info("Object storage enabled", zap.String("bucket", s3Storage.Bucket()))
	} else {
		reportStorage = storage.NewMemoryObjectStorage("http://localhost:" + cfg.App.Port + "/reports")
		log.Warn("Object storage disabled, archived reports are kept in memory")
	}

	// Application services
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, log)
	userService := identityapp.NewUserService(userRepo, tokenBlacklist, cfg.JWT.RefreshTokenExpiration, log)
	buildingService := housingapp.NewBuildingService(buildingRepo, floorRepo, roomRepo, log)
	roomService := housingapp.NewRoomService(roomRepo, floorRepo, placeRepo, maintenanceRepo, userRepo, log)
	maintenanceService := housingapp.NewMaintenanceService(maintenanceRepo, roomRepo, placeRepo, log)
	inspectionService := inspectionapp.NewInspectionService(inspectionRepo, roomRepo, floorRepo, buildingRepo, userRepo, log).
		WithReports(reportGenerator, reportStorage, cfg.Storage.PresignExpiration).
		WithMetrics(tel.Metrics)
	eventService := communityapp.NewEventService(eventRepo, invitationRepo, log).
		WithInvitationRetention(cfg.Scheduler.InvitationRetention).
		WithMetrics(tel.Metrics)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Background jobs
	jobScheduler := scheduler.New(scheduler.Config{
		Workers:       cfg.Scheduler.Workers,
		QueueSize:     cfg.Scheduler.QueueSize,
		JobTimeout:    cfg.Scheduler.JobTimeout,
		RetryAttempts: cfg.Scheduler.RetryAttempts,
		RetryDelay:    cfg.Scheduler.RetryDelay,
	}, log)
	jobScheduler.Register(scheduler.JobTypeReportArchive, scheduler.NewReportArchiveExecutor(inspectionService, log))
	jobScheduler.Register(scheduler.JobTypeInvitationCleanup, scheduler.NewInvitationCleanupExecutor(eventService, log))
	jobScheduler.OnFinish(func(ctx context.Context, job *scheduler.Job, err error) {
		tel.Metrics.JobProcessed(ctx, string(job.Type), err)
	})
	if cfg.Scheduler.Enabled {
		if err := jobScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start job scheduler", zap.Error(err))
		}
		defer func() {
			if err := jobScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping job scheduler", zap.Error(err))
			}
		}()
		log.Info("Job scheduler started",
			zap.Int("workers", cfg.Scheduler.Workers),
			zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
		)

		trigger := scheduler.NewDailyTrigger(scheduler.DailyTriggerConfig{
			Hour:          cfg.Scheduler.CleanupHour,
			CheckInterval: time.Minute,
		}, jobScheduler, eventService, log)
		if err := trigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start cleanup trigger", zap.Error(err))
		}
		defer func() {
			if err := trigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping cleanup trigger", zap.Error(err))
			}
		}()
	}

	// Event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	idempotencyStore := cache.NewIdempotencyStore(redisClient, log)
	completedHandler := event.NewIdempotentHandler(
		inspectionapp.NewInspectionCompletedHandler(jobScheduler, log),
		idempotencyStore, log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{
			Enabled: true,
			TTL:     cfg.Event.IdempotencyTTL,
		}),
	)
	eventBus.Subscribe(completedHandler)
	log.Info("Event handlers registered", zap.Strings("inspection_completed_events", completedHandler.EventTypes()))

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	if cfg.Event.ProcessorEnabled {
		processorConfig := event.DefaultOutboxProcessorConfig()
		if cfg.Event.BatchSize > 0 {
			processorConfig.BatchSize = cfg.Event.BatchSize
		}
		if cfg.Event.PollInterval > 0 {
			processorConfig.PollInterval = cfg.Event.PollInterval
		}
		if cfg.Event.MaxRetries > 0 {
			processorConfig.MaxRetries = cfg.Event.MaxRetries
		}
		if cfg.Event.CleanupRetention > 0 {
			processorConfig.CleanupRetention = cfg.Event.CleanupRetention
		}
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorConfig.BatchSize),
			zap.Duration("poll_interval", processorConfig.PollInterval),
		)
	}

	// HTTP handlers
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version).
		AddCheck("database", func(ctx context.Context) error { return db.DB.WithContext(ctx).Exec("SELECT 1").Error })
	if redisClient != nil {
		systemHandler.AddCheck("redis", func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
	}
	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		User:        handler.NewUserHandler(userService),
		Building:    handler.NewBuildingHandler(buildingService),
		Room:        handler.NewRoomHandler(roomService),
		Maintenance: handler.NewMaintenanceHandler(maintenanceService),
		Inspection:  handler.NewInspectionHandler(inspectionService),
		Event:       handler.NewEventHandler(eventService),
		System:      systemHandler,
		Outbox:      handler.NewOutboxHandler(outboxService),
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	limiterCtx, stopLimiters := context.WithCancel(context.Background())
	defer stopLimiters()

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SecurityHeaders(cfg.App.Env == "production"))
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go limiter.Run(limiterCtx)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	if cfg.HTTP.AuthRateLimit > 0 {
		loginLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimit, cfg.HTTP.RateLimitWindow)
		go loginLimiter.Run(limiterCtx)
		handlers.LoginLimit = middleware.RateLimitByKey(loginLimiter, func(c *gin.Context) string {
			return "login:" + c.ClientIP()
		})
	}

	tracingConfig := middleware.DefaultTracingConfig()
	tracingConfig.ServiceName = cfg.Telemetry.ServiceName
	tracingConfig.Enabled = cfg.Telemetry.Enabled
	engine.Use(middleware.Tracing(tracingConfig))
	httpMetrics, err := middleware.HTTPMetrics(tel.Meter.Meter("dormhub/http"))
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}
	engine.Use(httpMetrics)

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	engine.GET("/swagger/*any",
		middleware.SwaggerGuard(cfg.Swagger.Enabled, cfg.Swagger.AllowedIPs),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = tokenBlacklist
	jwtConfig.Logger = log
	jwtConfig.DevHeaderFallback = cfg.App.Env == "development"

	r := router.NewRouter(engine)
	r.Use(
		middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
		middleware.SpanAttributes(),
		middleware.ProfilingLabels(tel.Profiler.IsEnabled()),
	)
	for _, g := range router.APIGroups(handlers) {
		r.Register(g)
	}
	api := r.Setup()
	api.GET("/health", systemHandler.Health)

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
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}
