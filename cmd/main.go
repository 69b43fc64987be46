package main

import (
	"context"
	"net/http"

	"contacts_project/internal/config"
	"contacts_project/internal/domain"
	"contacts_project/internal/middleware"
	"contacts_project/internal/repository"
	"contacts_project/internal/transport/rest"
	"contacts_project/internal/utils/blacklist"
	"contacts_project/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	logger.InitLogger(cfg.LogFile)
	defer logger.Logger.Sync()

	db, err := gorm.Open(postgres.Open(cfg.DSN()))
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	if err := db.AutoMigrate(&domain.User{}, &domain.Contact{}); err != nil {
		logger.Logger.Fatal("Failed to migrate schema", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	if cfg.OTLPEndpoint != "" {
		tp, err := middleware.InitTracer(cfg.OTLPEndpoint, "contacts-service")
		if err != nil {
			logger.Logger.Warn("Failed to initialize tracer", zap.Error(err))
		} else {
			defer tp.Shutdown(context.Background())
		}
	}

	router := rest.NewRouter(rest.Deps{
		Contacts:  repository.NewContactRepository(db),
		Users:     repository.NewUserRepository(db),
		Blacklist: blacklist.NewRedisBlacklist(redisClient),
		Redis:     redisClient,
		SecretKey: cfg.SecretKey,
	})

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID", "Idempotency-Key"},
		AllowCredentials: true,
	}).Handler(router)

	logger.Logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
	if err := http.ListenAndServe(cfg.HTTPAddr, handler); err != nil {
		logger.Logger.Fatal("Failed to serve", zap.Error(err))
	}
}
