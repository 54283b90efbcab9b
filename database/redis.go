// database/redis.go - Optional Redis connection for the leaderboard cache
package database

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedis connects to Redis when REDIS_ADDR is configured. The
// leaderboard degrades to direct database queries without it, so a
// missing or unreachable Redis is a warning, not a fatal error.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, leaderboard cache disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis unreachable (%v), leaderboard cache disabled", err)
		return
	}

	redisClient = client
	log.Println("✅ Redis connected successfully")
}

// GetRedis returns the Redis client, or nil when the cache is disabled.
func GetRedis() *redis.Client {
	return redisClient
}
