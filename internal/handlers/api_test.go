package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/askdocs/internal/models"
	"github.com/ternarybob/askdocs/internal/services/index"
	"github.com/ternarybob/askdocs/internal/services/ingest"
)

// mockRefresher implements IndexRefresher for testing
type mockRefresher struct {
	refreshFunc func(ctx context.Context) (ingest.Stats, error)
}

func (m *mockRefresher) Refresh(ctx context.Context) (ingest.Stats, error) {
	return m.refreshFunc(ctx)
}

// mockStatus implements RefreshStatusReporter for testing
type mockStatus struct {
	status models.RefreshStatus
}

func (m mockStatus) RefreshStatus() models.RefreshStatus {
	return m.status
}

func populatedStore(t *testing.T) *index.Store {
	t.Helper()
	idx := index.New()
	require.NoError(t, idx.Add(models.Chunk{Text: "Deployments run on Cloud Run.", Source: "deploy.md"}, []float32{1, 0, 0}))
	idx.RecordDocument(models.DocumentStats{Name: "deploy.md", Chunks: 1})
	idx.Seal()
	store := index.NewStore()
	store.Publish(idx)
	return store
}

func TestRootHandler(t *testing.T) {
	handler := NewAPIHandler(index.NewStore(), arbor.NewLogger())
	rec := httptest.NewRecorder()

	handler.RootHandler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Fidgetech AI Backend is running!", rec.Body.String())
}

func TestRootHandler_UnknownPath(t *testing.T) {
	handler := NewAPIHandler(index.NewStore(), arbor.NewLogger())
	rec := httptest.NewRecorder()

	handler.RootHandler(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "/missing", decodeBody(t, rec)["path"])
}

func TestHealthHandler(t *testing.T) {
	t.Run("no corpus", func(t *testing.T) {
		handler := NewAPIHandler(index.NewStore(), arbor.NewLogger())
		rec := httptest.NewRecorder()

		handler.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "no_corpus", decodeBody(t, rec)["status"])
	})

	t.Run("ok", func(t *testing.T) {
		handler := NewAPIHandler(populatedStore(t), arbor.NewLogger())
		rec := httptest.NewRecorder()

		handler.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, float64(1), body["chunks"])
	})
}

func TestVersionHandler(t *testing.T) {
	handler := NewAPIHandler(index.NewStore(), arbor.NewLogger())
	rec := httptest.NewRecorder()

	handler.VersionHandler(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody(t, rec), "version")
}

func TestIndexStatsHandler(t *testing.T) {
	handler := NewIndexHandler(populatedStore(t), &mockRefresher{}, mockStatus{}, arbor.NewLogger())
	rec := httptest.NewRecorder()

	handler.StatsHandler(rec, httptest.NewRequest(http.MethodGet, "/api/index", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["chunks"])
	assert.Equal(t, float64(3), body["dimension"])
	assert.Len(t, body["documents"], 1)
	assert.Equal(t, map[string]interface{}{}, body["refresh"])
}

func TestIndexStatsHandler_RefreshStatus(t *testing.T) {
	last := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	next := last.Add(6 * time.Hour)
	status := mockStatus{status: models.RefreshStatus{
		LastRefresh: &last,
		LastError:   "bucket not found",
		Schedule:    "0 0 */6 * * *",
		NextRun:     &next,
	}}
	handler := NewIndexHandler(populatedStore(t), &mockRefresher{}, status, arbor.NewLogger())
	rec := httptest.NewRecorder()

	handler.StatsHandler(rec, httptest.NewRequest(http.MethodGet, "/api/index", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	refresh, ok := decodeBody(t, rec)["refresh"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2026-03-01T06:00:00Z", refresh["last_refresh"])
	assert.Equal(t, "bucket not found", refresh["last_error"])
	assert.Equal(t, "0 0 */6 * * *", refresh["schedule"])
	assert.Equal(t, "2026-03-01T12:00:00Z", refresh["next_run"])
}

func TestRefreshHandler(t *testing.T) {
	store := index.NewStore()
	refresher := &mockRefresher{refreshFunc: func(ctx context.Context) (ingest.Stats, error) {
		store.Publish(populatedStore(t).Current())
		return ingest.Stats{Documents: 1, Chunks: 1}, nil
	}}
	handler := NewIndexHandler(store, refresher, mockStatus{}, arbor.NewLogger())
	rec := httptest.NewRecorder()

	handler.RefreshHandler(rec, httptest.NewRequest(http.MethodPost, "/api/index/refresh", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Contains(t, body, "build")
	require.Contains(t, body, "index")
	assert.Equal(t, float64(1), body["index"].(map[string]interface{})["chunks"])
}

func TestRefreshHandler_Failure(t *testing.T) {
	refresher := &mockRefresher{refreshFunc: func(ctx context.Context) (ingest.Stats, error) {
		return ingest.Stats{}, errors.New("bucket not found")
	}}
	handler := NewIndexHandler(index.NewStore(), refresher, mockStatus{}, arbor.NewLogger())
	rec := httptest.NewRecorder()

	handler.RefreshHandler(rec, httptest.NewRequest(http.MethodPost, "/api/index/refresh", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "bucket not found", decodeBody(t, rec)["details"])
}

func TestRefreshHandler_MethodNotAllowed(t *testing.T) {
	handler := NewIndexHandler(index.NewStore(), &mockRefresher{}, mockStatus{}, arbor.NewLogger())
	rec := httptest.NewRecorder()

	handler.RefreshHandler(rec, httptest.NewRequest(http.MethodGet, "/api/index/refresh", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
