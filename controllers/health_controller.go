package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health is an unauthenticated liveness endpoint for schedulers and
// container orchestrators.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}
