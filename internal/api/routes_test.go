package api

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// TestSetupRoutes tests that routes are properly registered by checking the route tree
func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	config := DefaultConfig()
	config.Engine = stubEngine{}

	server := NewServer(config)
	router := gin.New()
	server.setupRoutes(router)

	expectedRoutes := map[string]string{
		"GET /api/v1/health":              "health endpoint",
		"GET /api/v1/resources":           "resources endpoint",
		"POST /api/v1/withdrawals":        "submit endpoint",
		"POST /api/v1/withdrawals/cancel": "cancel endpoint",
		"GET /api/v1/withdrawals/status":  "status endpoint",
	}

	registeredRoutes := make(map[string]bool)
	for _, route := range router.Routes() {
		registeredRoutes[route.Method+" "+route.Path] = true
	}

	for expectedRoute, description := range expectedRoutes {
		t.Run(description, func(t *testing.T) {
			if !registeredRoutes[expectedRoute] {
				t.Errorf("Route %s not registered", expectedRoute)
			}
		})
	}

	if len(registeredRoutes) != len(expectedRoutes) {
		t.Errorf("Expected %d routes, got %d", len(expectedRoutes), len(registeredRoutes))
	}
}

// TestSetupRoutes_APIPrefix tests that all routes are under /api/v1 prefix
func TestSetupRoutes_APIPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)

	config := DefaultConfig()
	config.Engine = stubEngine{}

	server := NewServer(config)
	router := gin.New()
	server.setupRoutes(router)

	for _, path := range []string{"/health", "/withdrawals/status"} {
		t.Run("no_prefix_"+path, func(t *testing.T) {
			req := httptest.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != 404 {
				t.Errorf("Route %s should not exist without /api/v1 prefix, got status %d", path, w.Code)
			}
		})
	}
}
