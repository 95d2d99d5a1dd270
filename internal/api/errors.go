package api

import (
	"errors"
	"net/http"

	"LunchVoter/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// statusOf 业务错误到 HTTP 状态码
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrRestaurantNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrVotingClosed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrBudgetExceeded),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrDuplicateName),
		errors.Is(err, service.ErrDuplicateUser),
		errors.Is(err, service.ErrVoteConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError 写错误响应；5xx 记录日志且不向客户端暴露细节
func respondError(c *gin.Context, logger *logrus.Logger, err error, msg string) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.WithError(err).WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString(requestIDKey),
		}).Error(msg)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
