package middleware

import (
	"time"

	"pelican/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RequestIDKey is the gin context key carrying the request id
const RequestIDKey = "request_id"

// Logger returns a gin middleware that tags each request with an id and
// logs it on completion
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		requestID := util.GenerateUUID()
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set("X-Request-Id", requestID)

		c.Next()

		end := time.Now()
		latency := end.Sub(start)

		event := log.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent())

		// Country hint set by the edge, when present
		if country := c.GetHeader("X-Geo-Country"); country != "" {
			event = event.Str("country", country)
		}

		event.Msg("HTTP request")
	}
}
