package ioc

import (
	"gitee.com/flycash/notifyhub/internal/api/web"
	"github.com/gotomicro/ego/server/egin"
)

type App struct {
	WebServer *egin.Component
}

func InitWebServer(handler *web.Handler) *egin.Component {
	server := egin.Load("server.http").Build()
	handler.RegisterRoutes(server)
	return server
}
