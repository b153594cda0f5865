package server

import (
	"net/http"
	"time"
)

// HealthStatus represents operational status for the /health endpoint.
type HealthStatus struct {
	Status        string                 `json:"status"`
	Timestamp     time.Time              `json:"timestamp"`
	Store         string                 `json:"store"`
	PlaylistCount int                    `json:"playlistCount"`
	Details       map[string]interface{} `json:"details,omitempty"`
}

// handleHealthCheck returns basic liveness + dependency checks.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request, _ []string) {
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Store:     "ok",
		Details:   make(map[string]interface{}),
	}

	if err := s.store.Ping(r.Context()); err != nil {
		health.Status = "unhealthy"
		health.Store = "error"
		health.Details["store_error"] = err.Error()
	}

	count, err := s.store.Count(r.Context())
	if err != nil {
		health.Details["playlist_count_error"] = err.Error()
	} else {
		health.PlaylistCount = count
	}

	statusCode := http.StatusOK
	if health.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	s.respondJSON(w, statusCode, health)
}
