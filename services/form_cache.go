package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"helpdesk.link/configs/configslog"
	"helpdesk.link/configs/configsredis"
	"helpdesk.link/pkg/formdef"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// publicFormCacheTTL public form görünümünün Redis'te kalma süresi.
const publicFormCacheTTL = 5 * time.Minute

// PublicForm public uçların ihtiyaç duyduğu form bilgisi.
type PublicForm struct {
	FormID       uint           `json:"formId"`
	Form         formdef.Public `json:"form"`
	PasswordHash string         `json:"passwordHash,omitempty"`
}

func (p *PublicForm) PasswordProtected() bool { return p.PasswordHash != "" }

// IFormCache anahtar -> PublicForm önbelleği.
type IFormCache interface {
	Get(ctx context.Context, key string) (*PublicForm, bool)
	Set(ctx context.Context, key string, form *PublicForm)
	Invalidate(ctx context.Context, key string)
}

// RedisFormCache istemci nil ise hiçbir şey yapmaz.
type RedisFormCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFormCache() IFormCache {
	return &RedisFormCache{client: configsredis.GetRedis(), ttl: publicFormCacheTTL}
}

func publicFormCacheKey(key string) string {
	return fmt.Sprintf("public_form:%s", key)
}

func (c *RedisFormCache) Get(ctx context.Context, key string) (*PublicForm, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, publicFormCacheKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			configslog.Log.Warn("Form önbelleği okunamadı", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var pf PublicForm
	if err := json.Unmarshal(raw, &pf); err != nil {
		configslog.Log.Warn("Form önbellek kaydı bozuk", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &pf, true
}

func (c *RedisFormCache) Set(ctx context.Context, key string, form *PublicForm) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(form)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, publicFormCacheKey(key), raw, c.ttl).Err(); err != nil {
		configslog.Log.Warn("Form önbelleğe yazılamadı", zap.String("key", key), zap.Error(err))
	}
}

func (c *RedisFormCache) Invalidate(ctx context.Context, key string) {
	if c.client == nil || key == "" {
		return
	}
	if err := c.client.Del(ctx, publicFormCacheKey(key)).Err(); err != nil {
		configslog.Log.Warn("Form önbelleği silinemedi", zap.String("key", key), zap.Error(err))
	}
}

var _ IFormCache = (*RedisFormCache)(nil)
