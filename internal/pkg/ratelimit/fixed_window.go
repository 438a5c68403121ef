package ratelimit

import (
	"context"
	"sync"
	"time"
)

var _ Limiter = (*FixedWindowLimiter)(nil)

// FixedWindowLimiter 基于内存的固定窗口限流器。
// 每个 key 维护独立的窗口和计数，窗口判定与计数自增在 key 级别的锁内完成，
// 并发请求不会超额放行。只适用于单实例部署，多实例部署使用
// RedisFixedWindowLimiter。
type FixedWindowLimiter struct {
	interval    time.Duration
	defaultRate int
	// 各 key 的限流阈值，未配置的 key 使用 defaultRate
	rates map[string]int

	mu      sync.RWMutex
	windows map[string]*fixedWindow

	// 便于测试注入
	now func() time.Time
}

type fixedWindow struct {
	mu    sync.Mutex
	start time.Time
	count int
}

// NewFixedWindowLimiter 创建固定窗口限流器。
// interval 是窗口长度，defaultRate 是每个窗口内允许的请求数，
// rates 按 key 覆盖默认阈值。
func NewFixedWindowLimiter(interval time.Duration, defaultRate int, rates map[string]int) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		interval:    interval,
		defaultRate: defaultRate,
		rates:       rates,
		windows:     make(map[string]*fixedWindow),
		now:         time.Now,
	}
}

// Limit 判断是否应该限流
func (f *FixedWindowLimiter) Limit(_ context.Context, key string) (bool, error) {
	w := f.window(key)

	w.mu.Lock()
	defer w.mu.Unlock()

	now := f.now()
	if now.Sub(w.start) >= f.interval {
		// 窗口已过期，重置计数并推进窗口起点
		w.start = now
		w.count = 0
	}
	if w.count >= f.rate(key) {
		return true, nil
	}
	w.count++
	return false, nil
}

func (f *FixedWindowLimiter) rate(key string) int {
	if r, ok := f.rates[key]; ok {
		return r
	}
	return f.defaultRate
}

func (f *FixedWindowLimiter) window(key string) *fixedWindow {
	f.mu.RLock()
	w, ok := f.windows[key]
	f.mu.RUnlock()
	if ok {
		return w
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok = f.windows[key]; ok {
		return w
	}
	w = &fixedWindow{start: f.now()}
	f.windows[key] = w
	return w
}
