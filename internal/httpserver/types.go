package httpserver

import "time"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// StatusResponse describes the update check job.
type StatusResponse struct {
	Job             string     `json:"job"`
	State           string     `json:"state"`
	IntervalSeconds float64    `json:"interval_seconds,omitempty"`
	NextRun         *time.Time `json:"next_run,omitempty"`
}
