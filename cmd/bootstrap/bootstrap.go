package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"baby-visit-scheduler/config"
	deliveryHttp "baby-visit-scheduler/internal/delivery/http"
	"baby-visit-scheduler/internal/delivery/http/handler"
	"baby-visit-scheduler/internal/delivery/http/middleware"
	"baby-visit-scheduler/internal/infrastructure/cache"
	"baby-visit-scheduler/internal/infrastructure/database"
	"baby-visit-scheduler/internal/repository"
	"baby-visit-scheduler/internal/service"
	"baby-visit-scheduler/internal/usecase"
	"baby-visit-scheduler/pkg/jwt"
	"baby-visit-scheduler/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config         *config.Config
	Log            *logrus.Logger
	DB             *gorm.DB
	RedisClient    *redis.Client
	OccupancyCache *service.OccupancyCacheService
	Server         *http.Server
}

// LoadConfig reads configuration and sets up the shared logger from it
func LoadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg.App)
	log.Info("Configuration loaded successfully")
	return cfg, log, nil
}

// New connects to the database and Redis and wires every layer
func New(cfg *config.Config, log *logrus.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	app.initializeServer()
	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() {
	cfg, db, redisClient, log := app.Config, app.DB, app.RedisClient, app.Log

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Initialize repositories
	caregiverRepo := repository.NewCaregiverRepository()
	babyRepo := repository.NewBabyRepository()
	scheduleRepo := repository.NewVisitScheduleRepository()
	slotRepo := repository.NewVisitSlotRepository()
	bookingRepo := repository.NewVisitBookingRepository()
	offerRepo := repository.NewOfferRepository()
	entitlementRepo := repository.NewEntitlementRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	ledgerRunner := repository.NewBookingLedgerRunner(db, slotRepo, bookingRepo, auditLogRepo)

	// Initialize services
	app.OccupancyCache = service.NewOccupancyCacheService(db, redisClient, bookingRepo, log)
	auditService := service.NewAuditService(log, auditLogRepo)
	planService := service.NewPlanService(entitlementRepo, cfg.Plan)
	bookingArbiter := service.NewBookingArbiter(ledgerRunner, log)
	resetNotifier := service.NewLogResetNotifier(log, cfg.Reset.LinkURL)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, caregiverRepo, babyRepo, auditService, jwtService, redisClient)
	passwordResetUsecase := usecase.NewPasswordResetUsecase(db, log, caregiverRepo, auditService, resetNotifier, redisClient, cfg.Reset.Expiry)
	babyUsecase := usecase.NewBabyUsecase(db, log, babyRepo)
	profileUsecase := usecase.NewCaregiverProfileUsecase(db, log, caregiverRepo, auditService)
	scheduleUsecase := usecase.NewVisitScheduleUsecase(db, log, scheduleRepo, slotRepo, planService, auditService, app.OccupancyCache)
	slotUsecase := usecase.NewVisitSlotUsecase(db, log, scheduleRepo, slotRepo, bookingRepo, auditService, app.OccupancyCache)
	bookingUsecase := usecase.NewVisitBookingUsecase(db, log, bookingArbiter, scheduleRepo, slotRepo, bookingRepo, babyRepo, app.OccupancyCache)
	entitlementUsecase := usecase.NewEntitlementUsecase(db, log, offerRepo, entitlementRepo, planService, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo, scheduleRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, passwordResetUsecase, customValidator, jwtService)
	profileHandler := handler.NewProfileHandler(babyUsecase, profileUsecase, customValidator)
	scheduleHandler := handler.NewVisitScheduleHandler(scheduleUsecase, customValidator)
	slotHandler := handler.NewVisitSlotHandler(slotUsecase, customValidator)
	bookingHandler := handler.NewVisitBookingHandler(bookingUsecase, auditLogUsecase)
	publicHandler := handler.NewPublicBookingHandler(bookingUsecase)
	entitlementHandler := handler.NewEntitlementHandler(entitlementUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)
	recoveryMiddleware := middleware.NewRecoveryMiddleware(log)

	router := deliveryHttp.NewRouter(
		authHandler,
		profileHandler,
		scheduleHandler,
		slotHandler,
		bookingHandler,
		publicHandler,
		entitlementHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		recoveryMiddleware,
	)

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run warms the occupancy cache, starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	syncCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if err := app.OccupancyCache.SyncOnStartup(syncCtx); err != nil {
		// counters are rebuilt lazily on first read
		app.Log.Warnf("Occupancy cache warm-up failed: %+v", err)
	}
	cancel()

	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close stops background workers and closes all connections
func (app *App) Close() {
	if app.OccupancyCache != nil {
		app.OccupancyCache.Stop()
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
