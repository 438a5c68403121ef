package retry

import (
	"context"
	"fmt"
	"time"

	"gitee.com/flycash/notifyhub/internal/errs"
)

// Classifier 区分可重试失败与终结失败，返回 true 表示可以重试
type Classifier func(err error) bool

// AlwaysRetry 把所有失败都视为可重试
func AlwaysRetry(error) bool { return true }

// Executor 把一次逻辑发送包装成带退避的有界重试。
// 只有最终结果对调用方可见，中间的失败不会外泄。
type Executor struct {
	cfg        Config
	classifier Classifier
}

func NewExecutor(cfg Config, classifier Classifier) (*Executor, error) {
	// 提前构建一次，暴露配置错误
	if _, err := NewStrategy(cfg); err != nil {
		return nil, err
	}
	if classifier == nil {
		classifier = AlwaysRetry
	}
	return &Executor{cfg: cfg, classifier: classifier}, nil
}

func (e *Executor) maxAttempts() int {
	switch e.cfg.Type {
	case "fixed":
		return int(e.cfg.FixedInterval.MaxAttempts)
	case "exponential":
		return int(e.cfg.ExponentialBackoff.MaxAttempts)
	default:
		return 1
	}
}

// Execute 执行 op 直到成功、终结失败、尝试耗尽或超出调用方的截止时间。
// 尝试次数上限由 Executor 自己计数，退避策略只提供等待间隔。
func (e *Executor) Execute(ctx context.Context, op func() error) error {
	strategy, err := NewStrategy(e.cfg)
	if err != nil {
		return err
	}

	maxAttempts := e.maxAttempts()
	var lastErr error
	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", errs.ErrTimeout, ctx.Err())
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}

		// 终结失败立刻停止
		if !e.classifier(lastErr) {
			return lastErr
		}

		if attempt >= maxAttempts {
			return fmt.Errorf("%w: 尝试 %d 次后失败: %w", errs.ErrSendFailed, maxAttempts, lastErr)
		}

		interval, ok := strategy.Next()
		if !ok {
			return fmt.Errorf("%w: %w", errs.ErrSendFailed, lastErr)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", errs.ErrTimeout, ctx.Err())
		case <-time.After(interval):
		}
	}
}
