package channel

import (
	"context"
	"errors"
	"strings"

	"gitee.com/flycash/notifyhub/internal/domain"
	"gitee.com/flycash/notifyhub/internal/errs"
)

// Sender 单个渠道的发送器。发送器无状态，可以被并发调用。
type Sender interface {
	// Send 通过该渠道发送通知，tmpl 是已解析的模板，允许为零值
	Send(ctx context.Context, notification domain.Notification, tmpl domain.ChannelTemplate) error
	// Channel 该发送器声明的渠道
	Channel() domain.Channel
	// Supports 判断是否支持指定渠道，忽略大小写
	Supports(name string) bool
}

// IsRetryable 区分终结失败与可重试失败。
// 发送器对非法接收者这类确定性错误统一包装 ErrSendFailed，重试没有意义；
// 其余错误视为瞬时故障，允许重试。
func IsRetryable(err error) bool {
	return !errors.Is(err, errs.ErrSendFailed) && !errors.Is(err, errs.ErrInvalidRequest)
}

type baseSender struct {
	channel domain.Channel
}

func (b baseSender) Channel() domain.Channel {
	return b.channel
}

func (b baseSender) Supports(name string) bool {
	return strings.EqualFold(string(b.channel), name)
}
