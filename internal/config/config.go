package config

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultRedisOpTimeout = time.Second * 2
	defaultRedisScanBatch = 100
	defaultSyncWorkers    = 8
	defaultSyncTimeout    = time.Second * 5
	defaultTokenTTL       = time.Hour
	defaultClientOrigin   = "http://localhost:3000"
)

type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
	MaxConns int32
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

type RedisConfig struct {
	Addr string
	// OpTimeout bounds every single round trip to redis.
	OpTimeout time.Duration
	// ScanBatch is the COUNT hint for SCAN and the max number of keys per DEL.
	ScanBatch int64
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type SyncConfig struct {
	Workers int
	Timeout time.Duration
}

type AuthConfig struct {
	AccessSecret []byte
	TokenTTL     time.Duration
}

func LoadEnv() error {
	return godotenv.Load()
}

func InitConfig() error {
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")

	viper.SetDefault("redis.op-timeout", defaultRedisOpTimeout)
	viper.SetDefault("redis.scan-batch", defaultRedisScanBatch)
	viper.SetDefault("sync.workers", defaultSyncWorkers)
	viper.SetDefault("sync.timeout", defaultSyncTimeout)
	viper.SetDefault("auth.token-ttl", defaultTokenTTL)
	viper.SetDefault("postgres.max-conns", 20)
	viper.SetDefault("client.origin", defaultClientOrigin)

	return viper.ReadInConfig()
}

func NewDBConfig() DBConfig {
	return DBConfig{
		Username: os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     os.Getenv("POSTGRES_PORT"),
		DBName:   os.Getenv("POSTGRES_DATABASE"),
		SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		MaxConns: viper.GetInt32("postgres.max-conns"),
	}
}

func NewRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:      os.Getenv("REDIS_ADDR"),
		OpTimeout: viper.GetDuration("redis.op-timeout"),
		ScanBatch: viper.GetInt64("redis.scan-batch"),
	}
}

func NewSyncConfig() SyncConfig {
	return SyncConfig{
		Workers: viper.GetInt("sync.workers"),
		Timeout: viper.GetDuration("sync.timeout"),
	}
}

func NewAuthConfig() AuthConfig {
	return AuthConfig{
		AccessSecret: []byte(os.Getenv("ACCESS_SECRET")),
		TokenTTL:     viper.GetDuration("auth.token-ttl"),
	}
}
