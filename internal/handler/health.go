package handler

import (
	"net/http"
)

// healthResponse is the body of GET /healthz.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// handleHealth implements GET /healthz. It reports database reachability so
// load balancers stop routing to an instance that lost its store. Returns
// 503 when the ping fails; a nil Pinger (tests) reports ok.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Database: "ok"}

	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			respondJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleOpenAPI serves the embedded OpenAPI document.
func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	if len(s.openapi) == 0 {
		http.Error(w, "openapi document not embedded", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(s.openapi)
}
