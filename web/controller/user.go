package controller

import (
	"errors"
	"net/http"

	"rifamania/web/service"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	BaseController
}

type loginForm struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	TotpCode string `json:"totpCode"`
}

type passwordForm struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

func NewUserController(public, authed *gin.RouterGroup) *UserController {
	a := &UserController{}
	a.initRouter(public, authed)
	return a
}

func (a *UserController) initRouter(public, authed *gin.RouterGroup) {
	public.POST("/users", a.register)
	public.POST("/auth/login", a.login)

	authed.GET("/users", a.getUser)
	authed.PUT("/users", a.updateUser)
	authed.DELETE("/users", a.deleteUser)
	authed.PUT("/users/password", a.updatePassword)
}

func (a *UserController) register(c *gin.Context) {
	form := &service.RegisterForm{}
	if err := c.ShouldBindJSON(form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, "Dados de cadastro inválidos.")
		return
	}
	user, err := a.userService.CreateUser(form)
	if err != nil {
		jsonInternal(c, nil, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (a *UserController) login(c *gin.Context) {
	form := &loginForm{}
	if err := c.ShouldBindJSON(form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, "Dados de login inválidos.")
		return
	}
	token, err := a.userService.Login(form.Email, form.Password, form.TotpCode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			pureJsonMsg(c, http.StatusUnauthorized, err.Error())
			return
		}
		jsonInternal(c, nil, err)
		return
	}
	jsonObj(c, gin.H{"token": token}, nil)
}

func (a *UserController) getUser(c *gin.Context) {
	user, err := a.userService.GetUser(loggedInUser(c))
	jsonInternal(c, user, err)
}

func (a *UserController) updateUser(c *gin.Context) {
	form := &service.UserUpdateForm{}
	if err := c.ShouldBindJSON(form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, "Dados inválidos.")
		return
	}
	user, err := a.userService.UpdateUser(loggedInUser(c), form)
	jsonInternal(c, user, err)
}

func (a *UserController) updatePassword(c *gin.Context) {
	form := &passwordForm{}
	if err := c.ShouldBindJSON(form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, "Dados inválidos.")
		return
	}
	err := a.userService.UpdatePassword(loggedInUser(c), form.CurrentPassword, form.NewPassword)
	jsonInternal(c, nil, err)
}

func (a *UserController) deleteUser(c *gin.Context) {
	err := a.userService.DeleteUser(loggedInUser(c))
	jsonInternal(c, nil, err)
}
