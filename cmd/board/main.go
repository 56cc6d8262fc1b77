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
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const shutdownTimeout = time.Second * 15

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := config.LoadEnv(); err != nil {
		logger.Sugar().Warnf("failed to load environment variables: %s", err.Error())
	}

	if err := config.InitConfig(); err != nil {
		logger.Sugar().Panicf("failed to initialize yaml config: %s", err.Error())
	}

	db, err := postgres.DB(ctx, config.NewDBConfig())
	if err != nil {
		logger.Sugar().Panicf("failed to connect to postgres: %s", err.Error())
	}
	if err := db.Ping(ctx); err != nil {
		logger.Sugar().Panicf("failed to ping postgres: %s", err.Error())
	}
	logger.Info("Successfully connected to PostgreSQL")

	redisConfig := config.NewRedisConfig()
	rdb := redis.NewClient(&redis.Options{
		Addr: redisConfig.Addr,
	})
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
	}
	logger.Sugar().Infof("Successfully connected to Redis: %s", pong)

	mq, err := rabbitmq.New(os.Getenv("RABBITMQ_CONN_STRING"))
	if err != nil {
		logger.Sugar().Panicf("failed to connect to rabbitmq: %s", err.Error())
	}
	logger.Info("Successfully connected to RabbitMQ")

	authConfig := config.NewAuthConfig()

	repos := repository.New(db, rdb, logger, redisConfig)
	services := service.New(logger, repos, nil, service.Config{
		Sync: config.NewSyncConfig(),
		Auth: authConfig,
	})
	handlers := handler.New(services, authConfig.AccessSecret)

	srv := server.New(config.ServerConfig{
		Port:           viper.GetString("app.port"),
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	})
	go func() {
		if err := srv.Run(); err != nil {
			logger.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}()

	go services.StartConsumeAll(ctx, mq)

	logger.Info("Board server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Board server shutting down")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shutdown http server: %s", err.Error())
	}

	services.Wait()

	if err := mq.Close(); err != nil {
		logger.Sugar().Errorf("failed to close rabbitmq connection: %s", err.Error())
	}
	if err := rdb.Close(); err != nil {
		logger.Sugar().Errorf("failed to close redis connection: %s", err.Error())
	}
	db.Close()
}
