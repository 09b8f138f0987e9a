package http

import "net/http"

// healthHandler answers GET /health with a bare 200, per spec.md §6.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
