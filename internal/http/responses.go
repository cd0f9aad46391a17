package http

import "github.com/gin-gonic/gin"

// respondError escribe el sobre uniforme de error del API.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func abortError(c *gin.Context, status int, message string) {
	respondError(c, status, message)
	c.Abort()
}
