package controller

import (
	"github.com/gin-gonic/gin"
)

// APIController wires every route group. Public routes cover registration,
// login, the raffle buy page and the payment webhook; everything else
// requires a Bearer token.
type APIController struct {
	BaseController

	userController   *UserController
	raffleController *RaffleController
	serverController *ServerController
}

func NewAPIController(g *gin.RouterGroup) *APIController {
	a := &APIController{}
	a.initRouter(g)
	return a
}

func (a *APIController) initRouter(g *gin.RouterGroup) {
	public := g.Group("/")

	authed := g.Group("/")
	authed.Use(a.checkLogin)

	a.userController = NewUserController(public, authed)
	a.raffleController = NewRaffleController(public, authed)
	a.serverController = NewServerController(authed)
}
