package handlers

import (
	"net/http"
	"time"
)

// ServiceName identifies this API in the health and info responses.
const ServiceName = "Task Management API"

// Health is the liveness probe.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   ServiceName,
	})
}

// APIInfo describes the versioned API surface.
func APIInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": ServiceName,
		"version": "1.0.0",
		"endpoints": map[string]string{
			"users":  "/api/v1/users",
			"tasks":  "/api/v1/tasks",
			"boards": "/api/v1/boards",
			"events": "/api/v1/events",
			"health": "/api/v1/health",
		},
	})
}
