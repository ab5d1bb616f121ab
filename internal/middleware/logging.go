package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"azure-functions-adapter/pkg/azure"
)

// InvocationIDKey is the key used to store the invocation ID in context
const InvocationIDKey = "invocation_id"

// FunctionKey is the key used to store the invoked function name in context
const FunctionKey = "function"

// InvocationID middleware takes the invocation ID from the Functions host, or
// mints one when the handler is driven directly.
func InvocationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		invocationID := c.GetHeader(azure.InvocationIDHeader)
		if invocationID == "" {
			invocationID = uuid.New().String()
		}

		c.Set(InvocationIDKey, invocationID)
		c.Header(azure.InvocationIDHeader, invocationID)
		c.Next()
	}
}

// Logger returns a log entry carrying the invocation fields of c
func Logger(c *gin.Context) *logrus.Entry {
	fields := logrus.Fields{
		"invocation_id": c.GetString(InvocationIDKey),
	}
	if function := c.GetString(FunctionKey); function != "" {
		fields["function"] = function
	}
	return logrus.WithFields(fields)
}

// StructuredLogger logs one line per invoke request
func StructuredLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		entry := Logger(c).WithFields(logrus.Fields{
			"method":        c.Request.Method,
			"path":          c.Request.URL.Path,
			"status_code":   status,
			"latency_ms":    float64(latency.Nanoseconds()) / 1000000,
			"response_size": c.Writer.Size(),
		})

		// Log based on status code
		switch {
		case status >= 500:
			entry.Error("Invocation failed")
		case status >= 400:
			entry.Warn("Invocation rejected")
		default:
			entry.Info("Invocation completed")
		}
	}
}
