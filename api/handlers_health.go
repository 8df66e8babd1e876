package api

import (
	"net/http"
)

// handleHealth responds with 200 OK to indicate the service is running
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	services := make(map[string]string, len(s.checks))
	for name, checker := range s.checks {
		services[name] = "unknown"
		if checker.Healthy() {
			services[name] = "up"
		}
	}

	s.sendJSONResponse(w, map[string]interface{}{
		"status":   "ok",
		"services": services,
	})
}
