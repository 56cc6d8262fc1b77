package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BloggingApp/board-service/internal/config"
	"github.com/BloggingApp/board-service/internal/handler"
	"github.com/BloggingApp/board-service/internal/rabbitmq"
	"github.com/BloggingApp/board-service/internal/repository"
	"github.com/BloggingApp/board-service/internal/repository/postgres"
	"github.com/BloggingApp/board-service/internal/server"
	"github.com/BloggingApp/board-service/internal/service"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const shutdownTimeout = time.Second * 15

func main() {
	ctx := context.Background()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := config.LoadEnv(); err != nil {
		logger.Sugar().Warnf("failed to load environment variables: %s", err.Error())
	}

	if err := config.InitConfig(); err != nil {
		logger.Sugar().Panicf("failed to initialize yaml config: %s", err.Error())
	}

	authConfig := config.NewAuthConfig()
	if len(authConfig.AccessSecret) == 0 {
		logger.Panic("ACCESS_SECRET is not set")
	}

	db, err := postgres.DB(ctx, config.NewDBConfig())
	if err != nil {
		logger.Sugar().Panicf("failed to connect to postgres: %s", err.Error())
	}
	if err := db.Ping(ctx); err != nil {
		logger.Sugar().Panicf("failed to ping postgres: %s", err.Error())
	}
	logger.Info("Successfully connected to PostgreSQL")

	mq, err := rabbitmq.New(os.Getenv("RABBITMQ_CONN_STRING"))
	if err != nil {
		logger.Sugar().Panicf("failed to connect to rabbitmq: %s", err.Error())
	}
	logger.Info("Successfully connected to RabbitMQ")

	// the auth service keeps no redis cache
	repos := repository.New(db, nil, logger, config.RedisConfig{})
	services := service.New(logger, repos, mq, service.Config{
		Sync: config.NewSyncConfig(),
		Auth: authConfig,
	})
	handlers := handler.New(services, authConfig.AccessSecret)

	srv := server.New(config.ServerConfig{
		Port:           viper.GetString("app.port"),
		Handler:        handlers.InitAuthRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	})
	go func() {
		if err := srv.Run(); err != nil {
			logger.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}()

	logger.Info("Auth server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Auth server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shutdown http server: %s", err.Error())
	}

	if err := mq.Close(); err != nil {
		logger.Sugar().Errorf("failed to close rabbitmq connection: %s", err.Error())
	}
	db.Close()
}
