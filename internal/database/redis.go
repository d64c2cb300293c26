package database

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// InitRedis connects to Redis. It returns nil when Redis is unreachable;
// entry creation then runs without idempotency keys.
func InitRedis(logger logrus.FieldLogger) *redis.Client {
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	addr := viper.GetString("redis.host") + ":" + viper.GetString("redis.port")
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis connection failed, continuing without redis")
		rdb.Close()
		return nil
	}

	logger.WithField("addr", addr).Info("redis connection established")
	return rdb
}
