package domain

import (
	"fmt"
	"strings"

	"gitee.com/flycash/notifyhub/internal/errs"
)

// Channel 通知渠道
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

// DefaultLocale 模板回退的默认语言
const DefaultLocale = "en"

// Notification 一次通知请求，构造之后不再修改
type Notification struct {
	Recipient    string            // 接收者(手机/邮箱/设备ID)
	Channel      Channel           // 发送渠道，为空时使用配置的默认渠道
	TemplateCode string            // 模板编码
	Locale       string            // 语言，为空时使用 en
	Payload      map[string]string // 渲染模板时使用的参数
}

func (n Notification) Validate() error {
	if strings.TrimSpace(n.Recipient) == "" {
		return fmt.Errorf("%w: Recipient = %q", errs.ErrInvalidRequest, n.Recipient)
	}
	if strings.TrimSpace(n.TemplateCode) == "" {
		return fmt.Errorf("%w: TemplateCode = %q", errs.ErrInvalidRequest, n.TemplateCode)
	}
	return nil
}

// EffectiveLocale 请求中的语言，为空时回退到默认语言
func (n Notification) EffectiveLocale() string {
	if n.Locale == "" {
		return DefaultLocale
	}
	return n.Locale
}

// SendResult 一次分发的最终结果
type SendResult struct {
	Success bool
	Message string
	// NotificationID 本次分发的关联ID，仅在成功时返回
	NotificationID string
}

func NewSuccessResult(notificationID string) SendResult {
	return SendResult{
		Success:        true,
		Message:        "notification sent successfully",
		NotificationID: notificationID,
	}
}

func NewFailureResult(message string) SendResult {
	return SendResult{
		Success: false,
		Message: message,
	}
}
