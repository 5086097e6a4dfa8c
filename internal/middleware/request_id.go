package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/harukisb/todo-tracking-api/internal/constants"
	"github.com/harukisb/todo-tracking-api/internal/logger"
)

// RequestID tags every request with an id, echoed in the X-Request-ID header
// and included in the access log line.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(constants.ContextKeyRequestID, id)
		c.Writer.Header().Set("X-Request-ID", id)

		c.Next()

		logger.Debugf("%s %s %s -> %d", id, c.Request.Method, c.Request.URL.Path, c.Writer.Status())
	}
}
