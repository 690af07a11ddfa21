package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abatilo/taskboard/internal/logger"
)

// loggerMiddleware logs every completed request.
func loggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		log.Debug("request completed",
			"method", c.Request.Method,
			"path", path,
			"status_code", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// corsMiddleware allows any origin, so a browser dashboard served elsewhere
// can read the API.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization, Cache-Control")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
