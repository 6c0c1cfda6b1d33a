package cache

import (
	"context"
	"encoding/json"
	"time"

	"sports-activity-platform/config"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

func Init() {
	cfg := config.Get()
	Client = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// GetJSON 读取缓存并反序列化到 dest，未命中或未初始化返回 false
func GetJSON(ctx context.Context, key string, dest any) bool {
	if Client == nil {
		return false
	}
	raw, err := Client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetJSON 序列化 value 并按 TTL 写入缓存，缓存失败不影响主流程
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if Client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	Client.Set(ctx, key, raw, ttl)
}
