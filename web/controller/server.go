package controller

import (
	"time"

	"rifamania/web/service"

	"github.com/gin-gonic/gin"
)

type ServerController struct {
	BaseController

	serverService service.ServerService

	lastStatus        *service.Status
	lastGetStatusTime time.Time
}

func NewServerController(g *gin.RouterGroup) *ServerController {
	a := &ServerController{
		lastGetStatusTime: time.Now(),
	}
	a.initRouter(g)
	return a
}

func (a *ServerController) initRouter(g *gin.RouterGroup) {
	g.GET("/server/status", a.status)
}

func (a *ServerController) status(c *gin.Context) {
	now := time.Now()
	// dashboards poll this; a 2s cache keeps gopsutil sampling cheap
	if a.lastStatus == nil || now.Sub(a.lastGetStatusTime) > 2*time.Second {
		a.lastStatus = a.serverService.GetStatus(a.lastStatus)
		a.lastGetStatusTime = now
	}
	jsonObj(c, a.lastStatus, nil)
}
