// Package container provides dependency injection using Uber FX.
package container

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/avionmeals/backend/internal/application/ai"
	"github.com/avionmeals/backend/internal/application/analytics"
	appcredits "github.com/avionmeals/backend/internal/application/credits"
	"github.com/avionmeals/backend/internal/application/notifications"
	"github.com/avionmeals/backend/internal/application/subscription"
	appuser "github.com/avionmeals/backend/internal/application/user"
	"github.com/avionmeals/backend/internal/infrastructure/ai/openai"
	"github.com/avionmeals/backend/internal/infrastructure/config"
	"github.com/avionmeals/backend/internal/infrastructure/http/apiserver"
	"github.com/avionmeals/backend/internal/infrastructure/http/handlers"
	"github.com/avionmeals/backend/internal/infrastructure/monitoring"
	gormRepo "github.com/avionmeals/backend/internal/infrastructure/persistence/gorm"
	"github.com/avionmeals/backend/internal/infrastructure/persistence/memory"
	"github.com/avionmeals/backend/internal/infrastructure/persistence/postgres"
	"github.com/avionmeals/backend/internal/infrastructure/persistence/redisotp"
	"github.com/avionmeals/backend/internal/infrastructure/persistence/sqlite"
	"github.com/avionmeals/backend/internal/infrastructure/security"
	"github.com/avionmeals/backend/internal/ports/outbound"
	"github.com/avionmeals/backend/pkg/logger"
)

// Module provides all dependency injection modules.
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	MonitoringModule,
	RepositoryModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration.
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging.
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the database connection for the configured
// driver.
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		logLevel := gormLogger.Silent
		if cfg.App.Debug {
			logLevel = gormLogger.Info
		}

		var db *gorm.DB
		var err error
		switch cfg.Database.Driver {
		case "postgres":
			db, err = postgres.SetupDatabase(cfg.Database, cfg.GetDSN(), logLevel)
		default:
			db, err = sqlite.SetupDatabase(cfg.Database.Database, logLevel)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to setup database: %w", err)
		}

		log.Info("Connected to database",
			zap.String("driver", cfg.Database.Driver),
			zap.String("database", cfg.Database.Database),
		)
		return db, nil
	},
)

// MonitoringModule provides the Prometheus registry and pipeline metrics.
var MonitoringModule = fx.Provide(
	func() *prometheus.Registry {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		return registry
	},
	func(registry *prometheus.Registry) *monitoring.Metrics {
		return monitoring.NewMetrics(registry)
	},
)

// RepositoryModule provides repository implementations.
var RepositoryModule = fx.Provide(
	fx.Annotate(gormRepo.NewCreditStore, fx.As(new(outbound.CreditStore))),
	fx.Annotate(gormRepo.NewMealPlanRepository, fx.As(new(outbound.MealPlanRepository))),
	fx.Annotate(gormRepo.NewRecipeRepository, fx.As(new(outbound.RecipeRepository))),
	fx.Annotate(gormRepo.NewUserRepository, fx.As(new(outbound.UserRepository))),
	fx.Annotate(gormRepo.NewSubscriptionRepository, fx.As(new(outbound.SubscriptionRepository))),
	fx.Annotate(gormRepo.NewDeviceTokenRepository, fx.As(new(outbound.DeviceTokenRepository))),
	fx.Annotate(gormRepo.NewEventRepository, fx.As(new(outbound.EventRepository))),

	// OTP codes live in Redis so they survive restarts and expire on
	// their own; the in-memory store covers dev boxes without Redis.
	func(cfg *config.Config, log *zap.Logger) outbound.OTPStore {
		if cfg.Redis.Host == "" {
			log.Info("Redis not configured, using in-memory OTP store")
			return memory.NewOTPStore()
		}
		client := redis.NewClient(&redis.Options{
			Addr:        cfg.RedisAddr(),
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.Database,
			DialTimeout: cfg.Redis.DialTimeout,
			PoolSize:    cfg.Redis.PoolSize,
		})
		return redisotp.NewStore(client)
	},
)

// ServiceModule provides application services.
var ServiceModule = fx.Provide(
	security.NewAuthService,

	func(store outbound.CreditStore, cfg *config.Config, log *zap.Logger) *appcredits.Ledger {
		return appcredits.NewLedger(store, log,
			cfg.Credits.DefaultAllowance,
			cfg.Credits.GuestAllowance,
		)
	},

	fx.Annotate(
		func(cfg *config.Config, log *zap.Logger) *openai.Client {
			return openai.NewClient(cfg.AI, log)
		},
		fx.As(new(outbound.AIClient)),
	),

	ai.NewService,

	func(
		users outbound.UserRepository,
		otp outbound.OTPStore,
		auth *security.AuthService,
		ledger *appcredits.Ledger,
		cfg *config.Config,
		log *zap.Logger,
	) *appuser.Service {
		return appuser.NewService(users, otp, auth, ledger, log, cfg.Redis.OTPTTL)
	},

	subscription.NewService,
	notifications.NewService,
	analytics.NewService,
)

// HTTPModule provides the HTTP server and handlers.
var HTTPModule = fx.Provide(
	handlers.NewAIHandlers,
	handlers.NewCreditHandlers,
	handlers.NewMealHandlers,
	handlers.NewRecipeHandlers,
	handlers.NewAuthHandlers,
	handlers.NewSubscriptionHandlers,
	handlers.NewNotificationHandlers,
	handlers.NewAnalyticsHandlers,

	func(
		aiH *handlers.AIHandlers,
		creditsH *handlers.CreditHandlers,
		mealsH *handlers.MealHandlers,
		recipesH *handlers.RecipeHandlers,
		authH *handlers.AuthHandlers,
		subsH *handlers.SubscriptionHandlers,
		notifH *handlers.NotificationHandlers,
		analyticsH *handlers.AnalyticsHandlers,
	) apiserver.Handlers {
		return apiserver.Handlers{
			AI:            aiH,
			Credits:       creditsH,
			Meals:         mealsH,
			Recipes:       recipesH,
			Auth:          authH,
			Subscription:  subsH,
			Notifications: notifH,
			Analytics:     analyticsH,
		}
	},

	apiserver.NewServer,
)

// LifecycleModule registers application lifecycle hooks.
var LifecycleModule = fx.Invoke(RegisterLifecycleHooks)

// RegisterLifecycleHooks starts the HTTP server on application start and
// tears everything down on stop.
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	server *apiserver.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting AvionMeals backend",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := server.Start(); err != nil {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down AvionMeals backend")

			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
