package middleware

import (
	"net/http"
	"time"

	"github.com/Conceptual-Machines/magda-harmony/internal/logger"
	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

const sentryFlushTimeout = 2 * time.Second

// SentryMiddleware attaches a Sentry hub to each request
func SentryMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         sentryFlushTimeout,
	})
}

// RecoverWithSentry turns a panic into a 500 carrying the request ID and
// reports it to Sentry tagged with the matched route.
func RecoverWithSentry() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				reportPanic(c, recovered)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":      "Internal server error",
					"request_id": c.GetString("request_id"),
				})
			}
		}()
		c.Next()
	}
}

func reportPanic(c *gin.Context, recovered interface{}) {
	fields := logger.WithContext(c)
	fields["route"] = c.FullPath()
	fields["panic"] = recovered
	logger.Error("Panic recovered", nil, fields)

	hub := sentrygin.GetHubFromContext(c)
	if hub == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(c.Request)
		scope.SetTag("route", c.FullPath())
		scope.SetTag("request_id", c.GetString("request_id"))
		hub.RecoverWithContext(c.Request.Context(), recovered)
	})
}
