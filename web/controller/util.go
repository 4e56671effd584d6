package controller

import (
	"errors"
	"net/http"

	"rifamania/logger"
	"rifamania/util/common"
	"rifamania/web/entity"

	"github.com/gin-gonic/gin"
)

func jsonMsg(c *gin.Context, msg string, err error) {
	jsonMsgObj(c, msg, nil, err)
}

func jsonObj(c *gin.Context, obj any, err error) {
	jsonMsgObj(c, "", obj, err)
}

func jsonMsgObj(c *gin.Context, msg string, obj any, err error) {
	m := entity.Msg{
		Obj: obj,
	}
	if err == nil {
		m.Success = true
		if msg != "" {
			m.Msg = msg
		}
		c.JSON(http.StatusOK, m)
		return
	}
	m.Success = false
	m.Msg = err.Error()
	logger.Warning("operation failed:", err)
	c.JSON(statusFor(err), m)
}

// statusFor maps the error taxonomy onto HTTP statuses. Anything outside the
// taxonomy is an internal fault and surfaces generically.
func statusFor(err error) int {
	var (
		notFound     *common.NotFoundError
		forbidden    *common.ForbiddenError
		invalidState *common.InvalidStateError
		validation   *common.ValidationError
		conflict     *common.ConflictError
		emptyPool    *common.EmptyPoolError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &invalidState), errors.As(err, &validation), errors.As(err, &emptyPool):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// jsonInternal hides unexpected store failures behind a generic message, but
// lets the taxonomy through untouched.
func jsonInternal(c *gin.Context, obj any, err error) {
	if err != nil && statusFor(err) == http.StatusInternalServerError {
		logger.Error("internal error:", err)
		jsonMsg(c, "", common.NewError("Erro interno do servidor."))
		return
	}
	jsonObj(c, obj, err)
}
