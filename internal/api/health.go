package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (r *Router) live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (r *Router) ready(c *gin.Context) {
	if r.healthz != nil {
		if err := r.healthz(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": gin.H{
			"kubernetes": "ok",
		},
	})
}
