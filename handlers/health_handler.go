package handlers

import "net/http"

// HealthHandler is the JSON liveness probe used by deploy checks.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
