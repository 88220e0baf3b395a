package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-catalog-service/config"
	"github.com/fekuna/omnipos-catalog-service/pkg/broker"
	"github.com/fekuna/omnipos-catalog-service/pkg/cache"
	"github.com/fekuna/omnipos-catalog-service/pkg/database/postgres"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/search"

	catH "github.com/fekuna/omnipos-catalog-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-catalog-service/internal/category/usecase"

	"github.com/fekuna/omnipos-catalog-service/internal/product"
	prodH "github.com/fekuna/omnipos-catalog-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-catalog-service/internal/product/usecase"

	promoH "github.com/fekuna/omnipos-catalog-service/internal/promotion/handler"
	promoRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/promotion/repository"
	promoUCPkg "github.com/fekuna/omnipos-catalog-service/internal/promotion/usecase"

	loyH "github.com/fekuna/omnipos-catalog-service/internal/loyalty/handler"
	loyListenerPkg "github.com/fekuna/omnipos-catalog-service/internal/loyalty/listener"
	loyRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/loyalty/repository"
	loyUCPkg "github.com/fekuna/omnipos-catalog-service/internal/loyalty/usecase"

	_ "github.com/fekuna/omnipos-catalog-service/pkg/grpcjson" // registers the json codec

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.IsDevelopment(),
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()

	// 3. Initialize i18n
	translator, err := i18n.New(cfg.I18n.DefaultLanguage)
	if err != nil {
		appLogger.Fatal("Could not load translations", zap.Error(err))
	}
	for _, path := range cfg.I18n.ExtraFiles {
		if err := translator.Load(path); err != nil {
			appLogger.Warn("Failed to load extra translations", zap.String("path", path), zap.Error(err))
		}
	}

	// 4. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 5. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	promoRepo := promoRepoPkg.NewPGRepository(db)
	loyRepo := loyRepoPkg.NewPGRepository(db)

	// 6. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 7. Initialize Kafka
	orderConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.OrdersTopic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer orderConsumer.Close()

	promoProducer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.PromotionsTopic,
	})
	defer promoProducer.Close()
	appLogger.Info("Kafka configured",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("orders_topic", cfg.Kafka.OrdersTopic),
		zap.String("promotions_topic", cfg.Kafka.PromotionsTopic),
	)

	// 8. Initialize Elasticsearch; search falls back to Postgres without it.
	var searchIndex product.SearchIndex
	if cfg.Elastic.Enabled {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, search will use the database", zap.Error(err))
		} else {
			searchIndex = esClient
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 9. Initialize UseCases
	catUC := catUCPkg.NewCategoryUseCase(catRepo, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, catUC, redisClient, searchIndex, cfg.Redis.CacheTTL, appLogger)
	promoUC := promoUCPkg.NewPromotionUseCase(promoRepo, redisClient, promoProducer, cfg.Redis.CacheTTL, appLogger)
	loyUC := loyUCPkg.NewLoyaltyUseCase(loyRepo, redisClient, cfg.Loyalty.SpendPerPoint, appLogger)

	// 10. Start Listeners
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orderListener := loyListenerPkg.NewOrderListener(orderConsumer, loyUC, appLogger)
	go orderListener.Start(ctx)

	// 11. Initialize Handlers
	catHandler := catH.NewCategoryHandler(catUC, translator, appLogger)
	prodHandler := prodH.NewProductHandler(prodUC, translator, appLogger)
	promoHandler := promoH.NewPromotionHandler(promoUC, translator, appLogger)
	loyHandler := loyH.NewLoyaltyHandler(loyUC, translator, appLogger)

	// 12. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	lis, err := net.Listen("tcp", port)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", port), zap.Error(err))
	}

	grpcServer, healthServer := newGRPCServer(appLogger, services{
		Category:  catHandler,
		Product:   prodHandler,
		Promotion: promoHandler,
		Loyalty:   loyHandler,
	})

	appLogger.Info("Starting gRPC server", zap.String("port", port))

	// Graceful Shutdown
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}
