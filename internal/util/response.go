package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Responses follow the backend's ReqRes envelope shape so clients can
// decode relay replies with the same code path.

// Success writes a success envelope with the given data.
func Success(c *gin.Context, data gin.H) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   data,
	})
}

// Error writes an error envelope.
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{
		"status":     "error",
		"statusCode": httpStatus,
		"message":    msg,
	})
}
