package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"growup-backend/models"
)

var statusByKind = map[models.ErrorKind]int{
	models.KindValidation:     http.StatusBadRequest,
	models.KindNotFound:       http.StatusNotFound,
	models.KindConflict:       http.StatusConflict,
	models.KindUnprocessable:  http.StatusUnprocessableEntity,
	models.KindAuthentication: http.StatusUnauthorized,
	models.KindForbidden:      http.StatusForbidden,
	models.KindInternal:       http.StatusInternalServerError,
}

func success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"success":    true,
		"statusCode": status,
		"message":    message,
		"data":       data,
	})
}

func failure(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success":    false,
		"statusCode": status,
		"code":       code,
		"message":    message,
	})
}

func badRequest(c *gin.Context, message string) {
	failure(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// renderError writes err as an error envelope. Internal errors are logged and
// shown to the client only as fallback.
func renderError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.NewInternalError(fallback, err)
	}
	status := statusByKind[appErr.Kind]
	if appErr.Kind == models.KindInternal {
		logger.Error(fallback,
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		_ = c.Error(err)
		failure(c, status, "INTERNAL_ERROR", fallback)
		return
	}
	failure(c, status, appErr.Code, appErr.Message)
}
