package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"rollcall.io/infrastructure/logger"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		logger.Info("error loading env variables")
	}
}

func LoadEnv() {
}

// Returns the value of key or fallback when it is unset.
func GetString(key string, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

// Parses key as a float. Malformed values are logged and replaced by fallback.
func GetFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logger.Warning("invalid float env variable, using default", logger.LoggerOptions{
			Key:  "key",
			Data: key,
		}, logger.LoggerOptions{
			Key:  "value",
			Data: value,
		})
		return fallback
	}
	return parsed
}

func GetInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logger.Warning("invalid int env variable, using default", logger.LoggerOptions{
			Key:  "key",
			Data: key,
		}, logger.LoggerOptions{
			Key:  "value",
			Data: value,
		})
		return fallback
	}
	return parsed
}
