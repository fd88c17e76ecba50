package utils

import (
	"github.com/redis/go-redis/v9"

	"milpower/internal/config"
	"milpower/internal/logger"
)

// OpenRedis: client for the configured address; nil when REDIS_ADDR is empty.
func OpenRedis(rc config.Redis) *redis.Client {
	if rc.Addr == "" {
		return nil
	}
	db := rc.DB
	if db < 0 {
		db = 0
	}
	logger.L().Debug("redis_config", "addr", rc.Addr, "db", db)
	return redis.NewClient(&redis.Options{Addr: rc.Addr, Password: rc.Password, DB: db})
}
