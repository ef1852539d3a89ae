// utils/response.go
package utils

import (
	"github.com/gin-gonic/gin"
)

// RespondWithError writes a plain error payload with an explicit status.
func RespondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// RespondWithAppError maps a service-layer error to its HTTP status and
// includes the error kind so clients can branch on it.
func RespondWithAppError(c *gin.Context, err error) {
	kind := KindOf(err)
	if kind == "" {
		RespondWithError(c, 500, "Internal server error")
		return
	}
	c.JSON(HTTPStatus(kind), gin.H{
		"error": err.Error(),
		"kind":  string(kind),
	})
}
