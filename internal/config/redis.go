package config

import "github.com/redis/go-redis/v9"

// RedisOptions maps the redis section onto go-redis client options.
func (c *RedisConfig) RedisOptions() *redis.Options {
	return &redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	}
}
