package retry

import (
	"fmt"
	"time"

	"github.com/ecodeclub/ekit/retry"
)

type Config struct {
	Type               string                    `json:"type"` // 重试策略
	FixedInterval      *FixedIntervalConfig      `json:"fixedInterval"`
	ExponentialBackoff *ExponentialBackoffConfig `json:"exponentialBackoff"`
}

type ExponentialBackoffConfig struct {
	// 初始重试间隔 单位ms
	InitialInterval int `json:"initialInterval"`
	// 最大重试间隔 单位ms
	MaxInterval int `json:"maxInterval"`
	// 最大尝试次数，包含首次发送
	MaxAttempts int32 `json:"maxAttempts"`
}

type FixedIntervalConfig struct {
	// 最大尝试次数，包含首次发送
	MaxAttempts int32 `json:"maxAttempts"`
	// 重试间隔 单位ms
	Interval int `json:"interval"`
}

// NewStrategy 根据配置构建退避策略。策略本身有状态，每次执行重新构建。
// MaxAttempts 是总尝试次数，传给策略的是首次之后的重试次数。
func NewStrategy(cfg Config) (retry.Strategy, error) {
	switch cfg.Type {
	case "fixed":
		if cfg.FixedInterval == nil || cfg.FixedInterval.MaxAttempts < 1 {
			return nil, fmt.Errorf("非法的固定间隔重试配置: %+v", cfg.FixedInterval)
		}
		return retry.NewFixedIntervalRetryStrategy(msToDuration(cfg.FixedInterval.Interval), cfg.FixedInterval.MaxAttempts-1)
	case "exponential":
		if cfg.ExponentialBackoff == nil || cfg.ExponentialBackoff.MaxAttempts < 1 {
			return nil, fmt.Errorf("非法的指数退避重试配置: %+v", cfg.ExponentialBackoff)
		}
		return retry.NewExponentialBackoffRetryStrategy(
			msToDuration(cfg.ExponentialBackoff.InitialInterval),
			msToDuration(cfg.ExponentialBackoff.MaxInterval),
			cfg.ExponentialBackoff.MaxAttempts-1)
	default:
		return nil, fmt.Errorf("unknown retry type: %s", cfg.Type)
	}
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms * 1e6) // 3ms = 3,000,000ns
}
