package ioc

import (
	"context"
	"time"

	"gitee.com/flycash/notifyhub/internal/domain"
	"gitee.com/flycash/notifyhub/internal/ioc"
	"gitee.com/flycash/notifyhub/internal/pkg/ratelimit"
	"gitee.com/flycash/notifyhub/internal/pkg/retry"
	"gitee.com/flycash/notifyhub/internal/repository"
	"gitee.com/flycash/notifyhub/internal/repository/cache"
	"gitee.com/flycash/notifyhub/internal/repository/dao"
	"gitee.com/flycash/notifyhub/internal/service/channel"
	"gitee.com/flycash/notifyhub/internal/service/dispatcher"
	templatesvc "gitee.com/flycash/notifyhub/internal/service/template"
	"github.com/gotomicro/ego/core/elog"
	ca "github.com/patrickmn/go-cache"
)

func newRegistry(cfg ioc.Config, metrics *channel.SenderMetrics) *channel.Registry {
	senders := []channel.Sender{
		channel.NewMetricsSender(channel.NewEmailSender(), metrics),
		channel.NewMetricsSender(channel.NewSMSSender(), metrics),
		channel.NewMetricsSender(channel.NewPushSender(), metrics),
	}
	registry, err := channel.NewRegistry(domain.Channel(cfg.DefaultChannel), senders)
	if err != nil {
		// 渠道配置错误直接阻止启动
		panic(err)
	}
	return registry
}

func newExecutor(cfg ioc.Config) *retry.Executor {
	executor, err := retry.NewExecutor(cfg.Retry, channel.IsRetryable)
	if err != nil {
		panic(err)
	}
	return executor
}

func newTemplateRepository(d dao.ChannelTemplateDAO, c *ca.Cache) repository.ChannelTemplateRepository {
	repo := repository.NewChannelTemplateRepository(d, cache.NewTemplateCache(c))

	const warmUpTimeout = 5 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), warmUpTimeout)
	defer cancel()
	channels := []domain.Channel{domain.ChannelEmail, domain.ChannelSMS, domain.ChannelPush}
	if err := repo.WarmUp(ctx, channels); err != nil {
		// 预热失败不阻止启动，后续按需加载
		elog.DefaultLogger.Warn("预热模板缓存失败", elog.Any("err", err))
	}
	return repo
}

func newDispatchService(
	registry *channel.Registry,
	templateSvc templatesvc.Service,
	limiter ratelimit.Limiter,
	executor *retry.Executor,
	auditRepo repository.AuditLogRepository,
	cfg ioc.Config,
) dispatcher.Service {
	svc := dispatcher.NewService(registry, templateSvc, limiter, executor, auditRepo, cfg.SendTimeout())
	return dispatcher.NewObservabilityService(svc)
}
