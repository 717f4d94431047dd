package config

import (
	"context"
	"crypto/tls"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the Redis client backing rate limiting and response
// caching.  REDIS_ADDR is a host:port shorthand; REDIS_HOST/REDIS_PORT take
// precedence when both are set.  A nil return means Redis is unreachable and
// callers degrade to pass-through.
func NewRedisClient() *redis.Client {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}

	var tlsConf *tls.Config
	if v := os.Getenv("REDIS_TLS"); strings.EqualFold(v, "true") || v == "1" {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}

	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        envInt("REDIS_DB", 0),
		TLSConfig: tlsConf,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
