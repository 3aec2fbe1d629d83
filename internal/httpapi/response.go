package httpapi

import "github.com/gin-gonic/gin"

// Every response uses the same envelope: {"success":bool, ...} on
// success, {"success":false,"message":string} on failure. The HTTP
// status encodes the error kind; the message never carries internal
// detail.

func ok(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}
