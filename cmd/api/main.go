package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/events"
	"fintrack/internal/lock"
	"fintrack/internal/logger"
	"fintrack/internal/server"
	"fintrack/internal/validator"
)

// @title           Fintrack API
// @version         1.0
// @description     Fintrack tracks wallets, categories, budgets and savings goals, and moves money between wallets.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(database.DefaultMigrationsPath); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	locker, closeLocker := newLocker(appConfig)
	defer closeLocker()

	publisher, err := newPublisher(appConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to message broker: %w", err)
	}
	defer publisher.Close()

	validator.Register()
	router := server.NewRouter(server.Dependencies{
		DB:        dbManager.DB(),
		Locker:    locker,
		Publisher: publisher,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("Starting Fintrack backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return server.New(":"+appConfig.Port, router, appConfig.ShutdownTimeout).Run(ctx)
}

// newLocker returns a Redis-backed locker when REDIS_ADDR is set so that
// several API instances serialise on the same wallets.
func newLocker(cfg *config.Config) (lock.Locker, func()) {
	if cfg.RedisAddr == "" {
		logger.Get().Info("REDIS_ADDR not set, using in-process wallet locks")
		return lock.NewLocal(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	opts := lock.DefaultRedisOptions()
	opts.Expiry = cfg.LockExpiry
	logger.Get().Infow("Using Redis wallet locks", "addr", cfg.RedisAddr)
	return lock.NewRedis(client, opts), func() { _ = client.Close() }
}

func newPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		logger.Get().Info("AMQP_URL not set, ledger events are not published")
		return events.NopPublisher{}, nil
	}
	return events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
}
