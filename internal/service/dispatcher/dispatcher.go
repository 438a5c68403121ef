package dispatcher

import (
	"context"
	"fmt"
	"time"

	"gitee.com/flycash/notifyhub/internal/domain"
	"gitee.com/flycash/notifyhub/internal/errs"
	"gitee.com/flycash/notifyhub/internal/pkg/ratelimit"
	"gitee.com/flycash/notifyhub/internal/pkg/retry"
	"gitee.com/flycash/notifyhub/internal/repository"
	"gitee.com/flycash/notifyhub/internal/service/channel"
	"gitee.com/flycash/notifyhub/internal/service/template"
	"github.com/gofrs/uuid"
	"github.com/gotomicro/ego/core/elog"
)

// Service 通知分发服务，对外的唯一入口。
//
// Dispatch 总是返回一个可用的 SendResult：单次请求内的失败
// (未知渠道/限流/发送失败/超时)会被就地转换为失败结果，同时返回
// 对应的哨兵错误供调用方映射状态码，绝不以未处理的故障形式外泄。
//
//go:generate mockgen -source=./dispatcher.go -destination=./mocks/dispatcher.mock.go -package=dispatchermocks -typed Service
type Service interface {
	Dispatch(ctx context.Context, n domain.Notification) (domain.SendResult, error)
}

type dispatchService struct {
	registry    *channel.Registry
	templateSvc template.Service
	limiter     ratelimit.Limiter
	executor    *retry.Executor
	auditRepo   repository.AuditLogRepository
	sendTimeout time.Duration
	logger      *elog.Component
}

// NewService 创建分发服务实例。sendTimeout 是单次分发的总截止时间，
// 覆盖全部重试，为 0 时不限制。
func NewService(
	registry *channel.Registry,
	templateSvc template.Service,
	limiter ratelimit.Limiter,
	executor *retry.Executor,
	auditRepo repository.AuditLogRepository,
	sendTimeout time.Duration,
) Service {
	return &dispatchService{
		registry:    registry,
		templateSvc: templateSvc,
		limiter:     limiter,
		executor:    executor,
		auditRepo:   auditRepo,
		sendTimeout: sendTimeout,
		logger:      elog.DefaultLogger,
	}
}

func (s *dispatchService) Dispatch(ctx context.Context, n domain.Notification) (domain.SendResult, error) {
	// 非法请求不构成一次分发，不生成关联ID也不写审计日志
	if err := n.Validate(); err != nil {
		return domain.NewFailureResult(err.Error()), err
	}

	notificationID, err := s.newNotificationID()
	if err != nil {
		return domain.NewFailureResult(err.Error()), err
	}

	effectiveChannel := n.Channel
	if effectiveChannel == "" {
		effectiveChannel = s.registry.DefaultChannel()
	}

	s.logger.Info("开始分发通知",
		elog.String("notificationID", notificationID),
		elog.String("recipient", n.Recipient),
		elog.String("channel", string(effectiveChannel)),
		elog.String("templateCode", n.TemplateCode))

	sender, err := s.registry.Resolve(string(effectiveChannel))
	if err != nil {
		// 未解析出渠道时不触碰限流器状态
		return s.failed(ctx, notificationID, n, effectiveChannel, err)
	}

	limited, err := s.limiter.Limit(ctx, string(effectiveChannel))
	if err != nil {
		// 限流器故障按拒绝处理，避免失去保护后打满下游
		return s.failed(ctx, notificationID, n, effectiveChannel,
			fmt.Errorf("%w: 限流器异常: %w", errs.ErrRateLimited, err))
	}
	if limited {
		return s.failed(ctx, notificationID, n, effectiveChannel,
			fmt.Errorf("%w: channel=%s", errs.ErrRateLimited, effectiveChannel))
	}

	// 模板缺失只影响内容渲染，不阻塞发送
	tmpl, err := s.templateSvc.Resolve(ctx, n.TemplateCode, n.EffectiveLocale(), effectiveChannel)
	if err != nil {
		s.logger.Warn("模板解析失败，继续发送",
			elog.String("notificationID", notificationID),
			elog.String("templateCode", n.TemplateCode),
			elog.Any("err", err))
		tmpl = domain.ChannelTemplate{}
	}

	sendCtx := ctx
	if s.sendTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.sendTimeout)
		defer cancel()
	}

	err = s.executor.Execute(sendCtx, func() error {
		return sender.Send(sendCtx, n, tmpl)
	})
	if err != nil {
		return s.failed(ctx, notificationID, n, effectiveChannel, err)
	}

	s.appendAudit(ctx, domain.AuditLog{
		NotificationID: notificationID,
		Recipient:      n.Recipient,
		Channel:        effectiveChannel,
		TemplateCode:   n.TemplateCode,
		Status:         domain.SendStatusSucceeded,
		SentAt:         time.Now(),
	})

	s.logger.Info("通知分发成功", elog.String("notificationID", notificationID))
	return domain.NewSuccessResult(notificationID), nil
}

func (s *dispatchService) failed(ctx context.Context, notificationID string, n domain.Notification, effectiveChannel domain.Channel, cause error) (domain.SendResult, error) {
	s.logger.Warn("通知分发失败",
		elog.String("notificationID", notificationID),
		elog.String("recipient", n.Recipient),
		elog.String("channel", string(effectiveChannel)),
		elog.Any("err", cause))

	s.appendAudit(ctx, domain.AuditLog{
		NotificationID: notificationID,
		Recipient:      n.Recipient,
		Channel:        effectiveChannel,
		TemplateCode:   n.TemplateCode,
		Status:         domain.SendStatusFailed,
		ErrorMessage:   cause.Error(),
		SentAt:         time.Now(),
	})

	return domain.NewFailureResult(cause.Error()), cause
}

// appendAudit 每次分发恰好写一条审计日志。写入失败不改变调用方看到的结果。
func (s *dispatchService) appendAudit(ctx context.Context, entry domain.AuditLog) {
	// 审计写入不随调用方取消或发送超时一起失效
	_, err := s.auditRepo.Append(context.WithoutCancel(ctx), entry)
	if err != nil {
		s.logger.Error("写入审计日志失败",
			elog.String("notificationID", entry.NotificationID),
			elog.Any("err", err))
	}
}

func (s *dispatchService) newNotificationID() (string, error) {
	uid, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("%w: 生成关联ID失败: %w", errs.ErrSendFailed, err)
	}
	return uid.String(), nil
}
