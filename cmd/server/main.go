package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/example/nyksales/pkg/auth"
	"github.com/example/nyksales/pkg/config"
	"github.com/example/nyksales/pkg/events"
	"github.com/example/nyksales/pkg/models"
	"github.com/example/nyksales/pkg/repository"
	"github.com/example/nyksales/pkg/server"
	"github.com/example/nyksales/pkg/service"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := newLogger(&cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting sales order service",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port))

	// Money values render as JSON numbers, matching the API contract
	decimal.MarshalJSONWithoutQuotes = true

	// Connect to MySQL
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("Failed to connect to MySQL", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to access database handle", zap.Error(err))
	}
	if cfg.MySQL.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	}
	if cfg.MySQL.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	}

	// Auto migrate
	err = db.AutoMigrate(&models.User{}, &models.Shop{}, &models.Product{}, &models.Order{}, &models.OrderItem{})
	if err != nil {
		logger.Fatal("Failed to migrate", zap.Error(err))
	}

	ctx := context.Background()

	// Redis (optional: stats cache)
	cache := repository.NewCache(&cfg.Redis)
	if err := cache.Ping(ctx); err != nil {
		logger.Warn("Redis connection failed, continuing without cache", zap.Error(err))
		cache = nil
	} else {
		logger.Info("Redis connected successfully")
	}

	// MongoDB (optional: audit trail)
	audit, err := repository.NewAuditStore(&cfg.MongoDB)
	if err == nil {
		err = audit.Ping(ctx)
	}
	if err != nil {
		logger.Warn("MongoDB connection failed, continuing without audit log", zap.Error(err))
		audit = nil
	} else {
		logger.Info("MongoDB connected successfully")
	}

	// Kafka (optional: order events)
	var publisher service.EventPublisher
	var kafkaPublisher *events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher = events.NewPublisher(&cfg.Kafka, logger)
		publisher = kafkaPublisher
		logger.Info("Kafka event publishing enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic))
	}

	// Services
	tokens := auth.NewManager(&cfg.JWT)
	userService := service.NewUserService(db, logger)
	authService := service.NewAuthService(userService, tokens, logger)
	shopService := service.NewShopService(db, logger)
	productService := service.NewProductService(db, logger)
	orderService := service.NewOrderService(db, logger, cache, audit, publisher, cfg.Orders.StrictTransitions)

	// HTTP server
	srv := server.NewServer(cfg, logger, tokens, authService, userService, shopService, productService, orderService)
	srv.SetupRoutes()

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("Failed to close Kafka writer", zap.Error(err))
		}
	}
	if cache != nil {
		cache.Close()
	}
	if audit != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		audit.Close(closeCtx)
		cancel()
	}

	logger.Info("Service stopped")
}

func newLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()

	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zapCfg.Level = level
	}
	if cfg.Encoding != "" {
		zapCfg.Encoding = cfg.Encoding
	}
	if len(cfg.OutputPaths) > 0 {
		zapCfg.OutputPaths = cfg.OutputPaths
	}

	return zapCfg.Build()
}
