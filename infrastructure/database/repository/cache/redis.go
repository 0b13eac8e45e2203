package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	redisClient "rollcall.io/infrastructure/database/connection/cache"
	"rollcall.io/infrastructure/logger"
)

var Cache = RedisRepository{}

type RedisRepository struct {
	Client *redis.Client
}

func (redisRepo *RedisRepository) preRequest() error {
	if redisRepo.Client == nil {
		client, err := redisClient.GetInstance()
		if err != nil {
			return err
		}
		redisRepo.Client = client.Client
		logger.Info("redis repository initialisation complete")
	}
	return nil
}

func (redisRepo *RedisRepository) CreateEntry(ctx context.Context, key string, payload interface{}, ttl time.Duration) bool {
	if err := redisRepo.preRequest(); err != nil {
		return false
	}
	_, err := redisRepo.Client.Set(ctx, key, payload, ttl).Result()
	if err != nil {
		logger.Error("redis error occured while running CreateEntry", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "key",
			Data: key,
		})
		return false
	}
	return true
}

// CreateEntryIfAbsent sets key only when it does not exist. created is false
// when another writer got there first.
func (redisRepo *RedisRepository) CreateEntryIfAbsent(ctx context.Context, key string, payload interface{}, ttl time.Duration) (created bool, err error) {
	if err := redisRepo.preRequest(); err != nil {
		return false, err
	}
	created, err = redisRepo.Client.SetNX(ctx, key, payload, ttl).Result()
	if err != nil {
		logger.Error("redis error occured while running CreateEntryIfAbsent", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "key",
			Data: key,
		})
		return false, err
	}
	return created, nil
}

func (redisRepo *RedisRepository) FindOne(ctx context.Context, key string) *string {
	if err := redisRepo.preRequest(); err != nil {
		return nil
	}
	result, err := redisRepo.Client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		logger.Error("redis error occured while running FindOne", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "key",
			Data: key,
		})
		return nil
	}
	return &result
}

func (redisRepo *RedisRepository) Exists(ctx context.Context, key string) (bool, error) {
	if err := redisRepo.preRequest(); err != nil {
		return false, err
	}
	count, err := redisRepo.Client.Exists(ctx, key).Result()
	if err != nil {
		logger.Error("redis error occured while running Exists", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "key",
			Data: key,
		})
		return false, err
	}
	return count == 1, nil
}

func (redisRepo *RedisRepository) DeleteOne(ctx context.Context, key string) bool {
	if err := redisRepo.preRequest(); err != nil {
		return false
	}
	result, err := redisRepo.Client.Del(ctx, key).Result()
	if err != nil {
		logger.Error("redis error occured while running DeleteOne", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "key",
			Data: key,
		})
		return false
	}
	return result == 1
}

// DeleteEntry removes key. A missing key is not an error.
func (redisRepo *RedisRepository) DeleteEntry(ctx context.Context, key string) error {
	if err := redisRepo.preRequest(); err != nil {
		return err
	}
	if err := redisRepo.Client.Del(ctx, key).Err(); err != nil {
		logger.Error("redis error occured while running DeleteEntry", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "key",
			Data: key,
		})
		return err
	}
	return nil
}
