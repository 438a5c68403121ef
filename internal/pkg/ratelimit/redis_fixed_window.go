package ratelimit

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	//go:embed lua/fixed_window.lua
	fixedWindowScript string

	_ Limiter = (*RedisFixedWindowLimiter)(nil)
)

// RedisFixedWindowLimiter 基于Redis的固定窗口限流器，
// 窗口判定与计数自增在Lua脚本内完成，多实例部署下依然原子。
type RedisFixedWindowLimiter struct {
	cmd         redis.Cmdable
	interval    time.Duration
	defaultRate int
	rates       map[string]int
	keyPrefix   string
}

// NewRedisFixedWindowLimiter 创建一个基于Redis的固定窗口限流器
func NewRedisFixedWindowLimiter(cmd redis.Cmdable, interval time.Duration, defaultRate int, rates map[string]int) *RedisFixedWindowLimiter {
	return &RedisFixedWindowLimiter{
		cmd:         cmd,
		interval:    interval,
		defaultRate: defaultRate,
		rates:       rates,
		keyPrefix:   "notifyhub:ratelimit:",
	}
}

// Limit 判断是否应该限流
func (r *RedisFixedWindowLimiter) Limit(ctx context.Context, key string) (bool, error) {
	return r.cmd.Eval(ctx, fixedWindowScript,
		[]string{r.getCountKey(key)},
		r.interval.Milliseconds(),
		r.rate(key),
	).Bool()
}

func (r *RedisFixedWindowLimiter) rate(key string) int {
	if rate, ok := r.rates[key]; ok {
		return rate
	}
	return r.defaultRate
}

// getCountKey 获取请求计数的Redis键
func (r *RedisFixedWindowLimiter) getCountKey(key string) string {
	return fmt.Sprintf("%scount:%s", r.keyPrefix, key)
}
