package cache

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"rollcall.io/infrastructure/logger"
)

type RedisConnection struct {
	Client *redis.Client
}

var (
	connection *RedisConnection
	once       sync.Once
)

func connectRedis() {
	opt := &redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
		PoolSize: 10,
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warning("redis ping failed", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	} else {
		logger.Info("connected to redis successfully")
	}
	connection = &RedisConnection{Client: client}
}

func ConnectToCache() {
	once.Do(connectRedis)
}

// Returns the shared connection, dialling it on first use.
func GetInstance() (*RedisConnection, error) {
	ConnectToCache()
	if connection == nil || connection.Client == nil {
		return nil, errors.New("redis connection not initialised")
	}
	return connection, nil
}
