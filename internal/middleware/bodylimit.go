package middleware

import (
	"net/http" // Body size limiting

	"github.com/gin-gonic/gin" // Gin web framework
)

// BodyLimit caps request bodies at limit bytes; reads past the cap fail
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
