package ioc

import (
	"fmt"

	"gitee.com/flycash/notifyhub/internal/pkg/ratelimit"
	"github.com/redis/go-redis/v9"
)

// InitLimiter 按配置选择限流器实现。
// 单实例部署用内存固定窗口，多实例部署用Redis固定窗口。
func InitLimiter(cfg Config, rdb *redis.Client) ratelimit.Limiter {
	switch cfg.RateLimit.Kind {
	case "", "local":
		return ratelimit.NewFixedWindowLimiter(cfg.RateLimit.Interval(), cfg.RateLimit.Rate, cfg.RateLimit.PerChannel)
	case "redis":
		return ratelimit.NewRedisFixedWindowLimiter(rdb, cfg.RateLimit.Interval(), cfg.RateLimit.Rate, cfg.RateLimit.PerChannel)
	default:
		panic(fmt.Sprintf("未知的限流器类型: %s", cfg.RateLimit.Kind))
	}
}
