package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const CallerIDKey = "caller_id"

// IdentifyCaller extracts the calling system's identifier from the
// X-Caller-ID header so runs can be attributed in the audit trail. Absent or
// blank headers are tolerated; attribution is best-effort.
func IdentifyCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		if caller := c.GetHeader("X-Caller-ID"); caller != "" {
			c.Set(CallerIDKey, caller)
		}
		c.Next()
	}
}

// GetCallerID retrieves the caller identifier from the context
func GetCallerID(c *gin.Context) (string, bool) {
	caller, exists := c.Get(CallerIDKey)
	if !exists {
		return "", false
	}
	return caller.(string), true
}

// RequestLogger logs each request with method, path, status, duration and the
// attributed caller.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}
		if caller, ok := GetCallerID(c); ok {
			fields["caller"] = caller
		}
		log.WithFields(fields).Info("request handled")
	}
}
