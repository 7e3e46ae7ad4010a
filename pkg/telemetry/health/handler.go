package health

import (
	"encoding/json"
	"net/http"
)

// Endpoint paths registered by Mount.
const (
	LivenessPath  = "/healthz"
	ReadinessPath = "/readyz"
)

// LivenessHandler serves the liveness endpoint.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowed(w, r) {
			return
		}
		write(w, r, http.StatusOK, c.CheckLiveness(r.Context()))
	}
}

// ReadinessHandler serves the readiness endpoint, answering 503 when any
// check fails.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowed(w, r) {
			return
		}
		status := c.CheckReadiness(r.Context())
		code := http.StatusOK
		if !status.Ready() {
			code = http.StatusServiceUnavailable
		}
		write(w, r, code, status)
	}
}

// Mount registers both endpoints on mux.
func (c *Checker) Mount(mux *http.ServeMux) {
	mux.HandleFunc(LivenessPath, c.LivenessHandler())
	mux.HandleFunc(ReadinessPath, c.ReadinessHandler())
}

func allowed(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func write(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(v)
	}
}
