package infra_redis_init

import (
	"fmt"
	"log"
	"net"

	"github.com/go-redis/redis"
	"github.com/humanbelnik/pollcast/core/internal/config"
)

func MustEstablishConn(cfg config.RedisCache) *redis.Client {
	client, err := Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

// Connect dials Redis and checks it answers before handing the client out.
func Connect(cfg config.RedisCache) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       0,
	})

	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s failed: %w", client.Options().Addr, err)
	}
	return client, nil
}
