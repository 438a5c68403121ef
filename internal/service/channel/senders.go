package channel

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"gitee.com/flycash/notifyhub/internal/domain"
	"gitee.com/flycash/notifyhub/internal/errs"
	"github.com/gotomicro/ego/core/elog"
)

// 三个渠道的发送器都是演示实现：校验接收者、打日志、直接返回。
// 真实的供应商网关不在本服务范围内。

type emailSender struct {
	baseSender
	logger *elog.Component
}

func NewEmailSender() Sender {
	return &emailSender{
		baseSender: baseSender{channel: domain.ChannelEmail},
		logger:     elog.DefaultLogger,
	}
}

func (s *emailSender) Send(_ context.Context, n domain.Notification, tmpl domain.ChannelTemplate) error {
	if !strings.Contains(n.Recipient, "@") {
		return fmt.Errorf("%w: 非法的邮箱地址 %q", errs.ErrSendFailed, n.Recipient)
	}
	s.logger.Info("发送邮件通知",
		elog.String("recipient", n.Recipient),
		elog.String("templateCode", n.TemplateCode),
		elog.String("subject", tmpl.Subject))
	return nil
}

type smsSender struct {
	baseSender
	logger *elog.Component
}

func NewSMSSender() Sender {
	return &smsSender{
		baseSender: baseSender{channel: domain.ChannelSMS},
		logger:     elog.DefaultLogger,
	}
}

func (s *smsSender) Send(_ context.Context, n domain.Notification, _ domain.ChannelTemplate) error {
	if !isPhoneNumber(n.Recipient) {
		return fmt.Errorf("%w: 非法的手机号 %q", errs.ErrSendFailed, n.Recipient)
	}
	s.logger.Info("发送短信通知",
		elog.String("recipient", n.Recipient),
		elog.String("templateCode", n.TemplateCode))
	return nil
}

func isPhoneNumber(recipient string) bool {
	if recipient == "" {
		return false
	}
	for i, r := range recipient {
		if i == 0 && r == '+' {
			continue
		}
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

type pushSender struct {
	baseSender
	logger *elog.Component
}

func NewPushSender() Sender {
	return &pushSender{
		baseSender: baseSender{channel: domain.ChannelPush},
		logger:     elog.DefaultLogger,
	}
}

func (s *pushSender) Send(_ context.Context, n domain.Notification, _ domain.ChannelTemplate) error {
	s.logger.Info("发送推送通知",
		elog.String("recipient", n.Recipient),
		elog.String("templateCode", n.TemplateCode),
		elog.Any("payload", n.Payload))
	return nil
}
