package middleware

import (
	"encoding/json"
	"net/http"
)

// HealthStatus is the body of the root probe.
type HealthStatus struct {
	Status string `json:"status"`
}

// RootHealthHandler answers GET /. It never touches the providers.
func RootHealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(HealthStatus{Status: "API is running"})
}

// LivenessHandler creates a liveness check handler (simplest check)
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
