package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"azure-functions-adapter/pkg/azure"
)

// RateLimiter implements token bucket rate limiting. A non-positive rate
// disables the limiter.
func RateLimiter(requestsPerSecond float64, burstSize int) gin.HandlerFunc {
	if requestsPerSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burstSize < 1 {
		burstSize = 1
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			Logger(c).WithField("path", c.Request.URL.Path).Warn("Rate limit exceeded")

			c.AbortWithStatusJSON(http.StatusTooManyRequests, &azure.InvokeResponse{
				Logs: []string{fmt.Sprintf("rate limit exceeded: %.1f invocations per second", requestsPerSecond)},
			})
			return
		}
		c.Next()
	}
}
