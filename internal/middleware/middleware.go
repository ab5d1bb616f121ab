package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"azure-functions-adapter/pkg/azure"
)

// Recovery turns a panic in the invoke path into a failed invocation
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		Logger(c).WithField("panic", fmt.Sprintf("%v", recovered)).Error("Invocation panicked")

		c.AbortWithStatusJSON(http.StatusInternalServerError, &azure.InvokeResponse{
			Logs: []string{fmt.Sprintf("panic: %v", recovered)},
		})
	})
}

// ErrorLogger logs errors attached to the context by handlers
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, err := range c.Errors {
			Logger(c).WithFields(logrus.Fields{
				"error":       err.Error(),
				"error_type":  fmt.Sprintf("%d", err.Type),
				"status_code": c.Writer.Status(),
			}).Error("Invocation error")
		}
	}
}
