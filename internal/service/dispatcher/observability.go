package dispatcher

import (
	"context"

	"gitee.com/flycash/notifyhub/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ObservabilityService 为分发服务添加链路追踪的装饰器
type ObservabilityService struct {
	svc    Service
	tracer trace.Tracer
}

// NewObservabilityService 创建一个新的带有链路追踪的分发服务
func NewObservabilityService(svc Service) *ObservabilityService {
	return &ObservabilityService{
		svc:    svc,
		tracer: otel.Tracer("notifyhub/dispatcher"),
	}
}

func (o *ObservabilityService) Dispatch(ctx context.Context, n domain.Notification) (domain.SendResult, error) {
	ctx, span := o.tracer.Start(ctx, "Dispatcher.Dispatch",
		trace.WithAttributes(
			attribute.String("notification.channel", string(n.Channel)),
			attribute.String("notification.templateCode", n.TemplateCode),
			attribute.String("notification.locale", n.EffectiveLocale()),
		))
	defer span.End()

	result, err := o.svc.Dispatch(ctx, n)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(
			attribute.String("notification.id", result.NotificationID),
			attribute.Bool("notification.success", result.Success),
		)
	}

	return result, err
}
