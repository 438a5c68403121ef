//go:build wireinject

package ioc

import (
	webapi "gitee.com/flycash/notifyhub/internal/api/web"
	"gitee.com/flycash/notifyhub/internal/ioc"
	"gitee.com/flycash/notifyhub/internal/repository"
	"gitee.com/flycash/notifyhub/internal/repository/dao"
	"gitee.com/flycash/notifyhub/internal/service/channel"
	templatesvc "gitee.com/flycash/notifyhub/internal/service/template"
	"github.com/google/wire"
)

var (
	baseSet = wire.NewSet(
		ioc.InitConfig,
		ioc.InitDB,
		ioc.InitRedisClient,
		ioc.InitGoCache,
		ioc.InitIDGenerator,
		ioc.InitLimiter,
	)
	templateSvcSet = wire.NewSet(
		templatesvc.NewService,
		newTemplateRepository,
		dao.NewChannelTemplateDAO,
	)
	auditSet = wire.NewSet(
		repository.NewAuditLogRepository,
		dao.NewAuditLogDAO,
	)
	dispatchSvcSet = wire.NewSet(
		newDispatchService,
		newRegistry,
		newExecutor,
		channel.NewSenderMetrics,
	)
)

func InitApp() *ioc.App {
	wire.Build(
		// 基础设施
		baseSet,

		// 模板服务
		templateSvcSet,

		// 审计日志
		auditSet,

		// 分发服务
		dispatchSvcSet,

		// HTTP服务器
		webapi.NewHandler,
		ioc.InitWebServer,
		wire.Struct(new(ioc.App), "*"),
	)

	return new(ioc.App)
}
