package httpserver

import (
	"net/http"

	"ffupdater/internal/scheduler"
)

// handleHealth handles GET /health
func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: s.version,
	})
}

// handleStatus handles GET /status
func (s *HTTPServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := StatusResponse{Job: scheduler.JobName, State: scheduler.Unregistered.String()}
	if s.state != nil {
		st := s.state()
		resp.State = st.Kind.String()
		if st.Kind == scheduler.Registered {
			resp.IntervalSeconds = st.Interval.Seconds()
			if !st.Next.IsZero() {
				next := st.Next
				resp.NextRun = &next
			}
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}
