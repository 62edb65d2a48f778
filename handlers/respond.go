package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Collaborator and unclassified failures are reported generically; the real
// error can carry internals (request URLs include credentials) and only
// belongs in the server log.

func writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("[handlers] %s %s upstream failure: %v", r.Method, r.URL.Path, err)
	writeError(w, http.StatusBadGateway, "upstream service unavailable")
}

func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("[handlers] %s %s internal error: %v", r.Method, r.URL.Path, err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
