package config

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RDB is nil when REDIS_ADDR is unset; callers must treat caching as
// best-effort and skip it in that case.
var RDB *redis.Client

const (
	CacheTTLShort  = 5 * time.Minute
	CacheTTLMedium = 30 * time.Minute
)

func ConnectRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Warn("REDIS_ADDR not set, caching disabled")
		return
	}

	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnf("redis unreachable, caching disabled: %v", err)
		return
	}

	RDB = client
	log.Info("redis connected")
}
