package ioc

import (
	"fmt"
	"time"

	"gitee.com/flycash/notifyhub/internal/pkg/retry"
	"github.com/gotomicro/ego/core/econf"
)

// Config 服务自身的配置，启动时从配置源构建并校验一次，
// 之后作为普通数据注入，不再有运行期取值。
type Config struct {
	// DefaultChannel 请求未指定渠道时使用的渠道，必须已注册
	DefaultChannel string `json:"defaultChannel" yaml:"defaultChannel"`
	// SendTimeoutMS 单次分发的总截止时间(毫秒)，覆盖全部重试，0 表示不限制
	SendTimeoutMS int             `json:"sendTimeoutMS" yaml:"sendTimeoutMS"`
	RateLimit     RateLimitConfig `json:"rateLimit" yaml:"rateLimit"`
	Retry         retry.Config    `json:"retry" yaml:"retry"`
}

type RateLimitConfig struct {
	// Kind 限流器实现：local(单实例内存) 或 redis(多实例)
	Kind string `json:"kind" yaml:"kind"`
	// IntervalMS 窗口长度(毫秒)
	IntervalMS int `json:"intervalMS" yaml:"intervalMS"`
	// Rate 每个窗口内默认允许的请求数
	Rate int `json:"rate" yaml:"rate"`
	// PerChannel 按渠道覆盖默认阈值
	PerChannel map[string]int `json:"perChannel" yaml:"perChannel"`
}

func (c Config) SendTimeout() time.Duration {
	return time.Duration(c.SendTimeoutMS) * time.Millisecond
}

func (c RateLimitConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// InitConfig 加载并校验 notifyhub 配置段，配置错误直接阻止启动
func InitConfig() Config {
	var cfg Config
	if err := econf.UnmarshalKey("notifyhub", &cfg); err != nil {
		panic(err)
	}
	if err := cfg.validate(); err != nil {
		panic(err)
	}
	return cfg
}

func (c Config) validate() error {
	if c.DefaultChannel == "" {
		return fmt.Errorf("notifyhub.defaultChannel 不能为空")
	}
	if c.RateLimit.IntervalMS <= 0 {
		return fmt.Errorf("notifyhub.rateLimit.intervalMS 必须大于0: %d", c.RateLimit.IntervalMS)
	}
	if c.RateLimit.Rate <= 0 {
		return fmt.Errorf("notifyhub.rateLimit.rate 必须大于0: %d", c.RateLimit.Rate)
	}
	for channel, rate := range c.RateLimit.PerChannel {
		if rate <= 0 {
			return fmt.Errorf("notifyhub.rateLimit.perChannel.%s 必须大于0: %d", channel, rate)
		}
	}
	if _, err := retry.NewStrategy(c.Retry); err != nil {
		return fmt.Errorf("notifyhub.retry 配置非法: %w", err)
	}
	return nil
}
