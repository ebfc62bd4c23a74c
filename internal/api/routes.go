package api

import (
	"github.com/gin-gonic/gin"
)

// Configures all API routes
func (s *Server) setupRoutes(router *gin.Engine) {
	// API version prefix
	v1 := router.Group("/api/v1")

	// Health check endpoint
	v1.GET("/health", s.getHandlerHealth())
	v1.GET("/resources", s.getHandlerResources())

	withdrawals := v1.Group("/withdrawals")
	{
		withdrawals.POST("", s.getHandlerSubmit())
		withdrawals.POST("/cancel", s.getHandlerCancel())
		withdrawals.GET("/status", s.getHandlerStatus())
	}
}
