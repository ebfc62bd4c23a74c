package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Instance  string    `json:"instance,omitempty"`
	Engine    string    `json:"engine"` // idle or busy
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

// HandleHealth returns the health status of the API server
func HandleHealth(engine Engine, instance, version string, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := "idle"
		if engine != nil && engine.Stats().Active {
			state = "busy"
		}

		response := HealthResponse{
			Status:    "healthy",
			Instance:  instance,
			Engine:    state,
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime).String(),
		}

		c.JSON(http.StatusOK, response)
	}
}
