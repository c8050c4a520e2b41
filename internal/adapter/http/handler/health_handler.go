package handler

import (
	"net/http"

	"svc-wallet/internal/core/ports"
	"svc-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// Live handles GET /live — shallow liveness probe, no dependency checks.
func Live(c *gin.Context) {
	response.OK(c, "Service is alive", response.CodeLiveOK, nil)
}

// HealthCheck handles GET /health — deep health check verifying all dependencies.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		payload := gin.H{"status": "healthy", "dependencies": deps}
		if !allHealthy {
			payload["status"] = "degraded"
			response.WithStatus(c, http.StatusServiceUnavailable, "Service is degraded", response.CodeHealthDegraded, payload)
			return
		}

		response.OK(c, "Service is healthy", response.CodeHealthOK, payload)
	}
}
