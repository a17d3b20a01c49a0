package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/theplanbeta/invoice/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size. Bodies
// without a Content-Length are cut off by the reader instead.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			abortWithError(c, http.StatusRequestEntityTooLarge,
				dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
