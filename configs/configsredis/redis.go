package configsredis

import (
	"context"
	"time"

	"helpdesk.link/configs/configslog"
	"helpdesk.link/configs/env"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var client *redis.Client

// InitRedis REDIS_ADDR tanımlıysa istemciyi kurar. Tanımlı değilse nil kalır ve
// builder oturumları bellekte tutulur.
func InitRedis() {
	addr := env.Get("REDIS_ADDR", "")
	if addr == "" {
		configslog.SLog.Warn("REDIS_ADDR tanımlı değil, builder oturumları bellekte tutulacak")
		return
	}

	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: env.Get("REDIS_PASSWORD", ""),
		DB:       env.GetInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		configslog.Log.Error("Redis'e bağlanılamadı, bellek deposuna düşülüyor", zap.String("addr", addr), zap.Error(err))
		_ = c.Close()
		return
	}

	client = c
	configslog.SLog.Infof("Redis bağlantısı kuruldu: %s", addr)
}

// GetRedis istemciyi döndürür, kurulmadıysa nil.
func GetRedis() *redis.Client {
	return client
}

func CloseRedis() {
	if client != nil {
		_ = client.Close()
	}
}
