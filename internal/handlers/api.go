package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/askdocs/internal/common"
	"github.com/ternarybob/askdocs/internal/services/index"
)

// livenessText is served at the root path
const livenessText = "Fidgetech AI Backend is running!"

type APIHandler struct {
	store  *index.Store
	logger arbor.ILogger
}

func NewAPIHandler(store *index.Store, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		store:  store,
		logger: logger,
	}
}

// RootHandler answers the liveness probe at "/" and 404s every other unmatched path
func (h *APIHandler) RootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.NotFoundHandler(w, r)
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(livenessText))
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, common.GetVersionInfo())
}

// HealthHandler reports whether questions can be answered
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	chunks := h.store.Current().Len()
	if chunks == 0 {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "no_corpus",
			"chunks": 0,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"chunks": chunks,
	})
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
