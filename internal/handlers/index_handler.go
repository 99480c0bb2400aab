package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/askdocs/internal/models"
	"github.com/ternarybob/askdocs/internal/services/index"
)

// IndexStatus is the GET /api/index response
type IndexStatus struct {
	models.IndexStats
	Refresh models.RefreshStatus `json:"refresh"`
}

// IndexHandler exposes the published index and manual refresh
type IndexHandler struct {
	store     *index.Store
	refresher IndexRefresher
	status    RefreshStatusReporter
	logger    arbor.ILogger
}

// NewIndexHandler creates a new index handler
func NewIndexHandler(store *index.Store, refresher IndexRefresher, status RefreshStatusReporter, logger arbor.ILogger) *IndexHandler {
	return &IndexHandler{
		store:     store,
		refresher: refresher,
		status:    status,
		logger:    logger,
	}
}

// StatsHandler handles GET /api/index
func (h *IndexHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, IndexStatus{
		IndexStats: h.store.Current().Stats(),
		Refresh:    h.status.RefreshStatus(),
	})
}

// RefreshHandler handles POST /api/index/refresh.
// The rebuild runs on the request; the previous index keeps serving until it completes.
func (h *IndexHandler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	h.logger.Info().Msg("Manual index refresh requested")

	// A rebuild can outlast the server write timeout
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug().Err(err).Msg("Could not clear write deadline for refresh")
	}

	stats, err := h.refresher.Refresh(r.Context())
	if err != nil {
		WriteErrorDetails(w, http.StatusInternalServerError, "Index refresh failed", err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"build": stats,
		"index": h.store.Current().Stats(),
	})
}
