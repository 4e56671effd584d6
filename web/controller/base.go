package controller

import (
	"net/http"
	"strings"

	"rifamania/web/entity"
	"rifamania/web/service"

	"github.com/gin-gonic/gin"
)

const userIdKey = "userId"

type BaseController struct {
	userService service.UserService
}

// checkLogin authenticates the Bearer token and stores the caller's user id
// on the context. Core operations still receive the id as an explicit
// argument; nothing below the controllers reads ambient request state.
func (a *BaseController) checkLogin(c *gin.Context) {
	auth := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		pureJsonMsg(c, http.StatusUnauthorized, "Token não fornecido.")
		c.Abort()
		return
	}
	userId, err := a.userService.CheckToken(token)
	if err != nil {
		pureJsonMsg(c, http.StatusUnauthorized, "Token inválido ou expirado.")
		c.Abort()
		return
	}
	c.Set(userIdKey, userId)
	c.Next()
}

func loggedInUser(c *gin.Context) string {
	return c.GetString(userIdKey)
}

func pureJsonMsg(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, entity.Msg{
		Success: false,
		Msg:     msg,
	})
}
