package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"trahy/booking-service/internal/app/booking/config"
	"trahy/booking-service/internal/app/booking/handler"
	"trahy/booking-service/internal/app/booking/infrastructure"
	"trahy/booking-service/internal/app/booking/infrastructure/cache"
	"trahy/booking-service/internal/app/booking/infrastructure/messaging"
	"trahy/booking-service/internal/app/booking/processor"
	"trahy/booking-service/internal/app/booking/repository"
	"trahy/booking-service/internal/app/booking/service"
	"trahy/pkg/logger"
)

const serviceName = "booking-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init(serviceName, logLevel)

	logstashAddr := os.Getenv("LOGSTASH_ADDR")
	if logstashAddr != "" {
		if err := logger.InitLogstash(logstashAddr, serviceName, logLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", logstashAddr).Msg("Connected to Logstash")
		}
	}

	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().
		Str("database", cfg.MongoDB.Database).
		Bool("transactions", cfg.MongoDB.Transactions).
		Msg("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB.Database)

	healthChecks := map[string]handler.HealthCheck{
		"mongodb": func(ctx context.Context) error {
			return mongoClient.Ping(ctx, readpref.Primary())
		},
	}

	// The slug cache is an optimisation; the service runs without Redis.
	var slugCache infrastructure.SlugCache
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	redisClient, err := cache.NewRedisClient(redisCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	redisCancel()
	if err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, slug cache disabled")
	} else {
		defer redisClient.Close()
		redisCache := cache.NewRedisSlugCache(redisClient, cfg.Redis.SlugTTL)
		slugCache = redisCache
		healthChecks["redis"] = redisCache.Ping
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
	}

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Msg("Initialized Kafka producer")

	propertyRepo := repository.NewPropertyRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	userRepo := repository.NewUserRepository(db)
	transactor := repository.NewTransactor(mongoClient, cfg.MongoDB.Transactions)

	resolver := service.NewPropertyResolver(propertyRepo, slugCache)
	propertyService := service.NewPropertyService(propertyRepo, roomRepo, resolver)
	reviewService := service.NewReviewService(reviewRepo, propertyRepo, resolver, transactor, kafkaProducer)
	bookingService := service.NewBookingService(bookingRepo, resolver, kafkaProducer)
	verificationService := service.NewVerificationService(userRepo, propertyRepo, transactor, kafkaProducer)

	var expiryScheduler *processor.ExpiryScheduler
	if cfg.Expiry.Schedule != "" {
		expiryScheduler = processor.NewExpiryScheduler(bookingService, cfg.Expiry.After, cfg.Expiry.Workers)
		if err := expiryScheduler.Start(context.Background(), cfg.Expiry.Schedule); err != nil {
			logger.Fatal().Err(err).Str("schedule", cfg.Expiry.Schedule).Msg("Failed to start booking expiry scheduler")
		}
	}

	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)
	router := handler.SetupRoutes(handler.Handlers{
		Property:     handler.NewPropertyHandler(propertyService),
		Review:       handler.NewReviewHandler(reviewService),
		Booking:      handler.NewBookingHandler(bookingService),
		Verification: handler.NewVerificationHandler(verificationService),
		Payment:      handler.NewPaymentHandler(bookingService, cfg.Payment.SuccessURL),
		Health:       handler.NewHealthCheckHandler(serviceName, healthChecks),
	}, authMiddleware)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Booking Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Booking Service...")

	if expiryScheduler != nil {
		expiryScheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Booking Service stopped gracefully")
}

func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var lastErr error
	for i := 0; i < 10; i++ {
		client, err := tryConnectMongoDB(clientOptions)
		if err == nil {
			return client, nil
		}
		lastErr = err

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, lastErr
}

func tryConnectMongoDB(clientOptions *options.ClientOptions) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}
