package handler

import (
	"errors"
	"net/http"

	"agilemate/internal/logger"
	"agilemate/internal/middleware"
	"agilemate/internal/model"
	"agilemate/internal/service"

	"github.com/gin-gonic/gin"
)

var statusByKind = map[service.Kind]int{
	service.KindUnauthenticated: http.StatusUnauthorized,
	service.KindForbidden:       http.StatusForbidden,
	service.KindInvalidInput:    http.StatusBadRequest,
	service.KindConflict:        http.StatusConflict,
	service.KindInternal:        http.StatusInternalServerError,
}

// writeError maps err onto the {error, details?} envelope. Causes of internal errors are
// logged, never sent.
func writeError(c *gin.Context, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		se = service.Internal("Internal server error", err)
	}
	status, ok := statusByKind[se.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request.failed", "route", c.FullPath(), "err", err)
	}
	c.JSON(status, model.ErrorResponse{Error: se.Message, Details: se.Details})
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request body"})
		return false
	}
	return true
}

// caller returns the identity set by the auth middleware. Routes using it are always
// mounted behind middleware.Auth.
func caller(c *gin.Context) (model.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Unauthorized: No token provided"})
	}
	return id, ok
}
