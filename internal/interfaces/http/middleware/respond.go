package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/theplanbeta/invoice/internal/interfaces/http/dto"
)

// APIPrefix marks routes that answer with the dto.Response envelope.
// Anything outside it, POST /send-invoice in particular, gets {"error": msg}.
const APIPrefix = "/api/"

// abortWithError stops the chain with the error body the route's clients read
func abortWithError(c *gin.Context, status int, code, message string) {
	if !strings.HasPrefix(c.Request.URL.Path, APIPrefix) {
		c.AbortWithStatusJSON(status, gin.H{"error": message})
		return
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, c.GetString(RequestIDKey)))
}
