package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/askdocs/internal/app"
	"github.com/ternarybob/askdocs/internal/common"
	"github.com/ternarybob/askdocs/internal/handlers"
	"github.com/ternarybob/askdocs/internal/models"
	"github.com/ternarybob/askdocs/internal/services/index"
	"github.com/ternarybob/askdocs/internal/services/ingest"
)

type stubAnswerer struct{}

func (stubAnswerer) Answer(ctx context.Context, query string) (*models.Answer, error) {
	if query == "panic" {
		panic("boom")
	}
	return &models.Answer{Answer: "42", RetrievedChunks: []string{}, SourceTitles: []string{}}, nil
}

type stubRefresher struct{}

func (stubRefresher) Refresh(ctx context.Context) (ingest.Stats, error) {
	return ingest.Stats{}, nil
}

type stubStatus struct{}

func (stubStatus) RefreshStatus() models.RefreshStatus {
	return models.RefreshStatus{}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := arbor.NewLogger()
	store := index.NewStore()
	application := &app.App{
		Config:       common.NewDefaultConfig(),
		Logger:       logger,
		Store:        store,
		APIHandler:   handlers.NewAPIHandler(store, logger),
		AskHandler:   handlers.NewAskHandler(stubAnswerer{}, logger),
		IndexHandler: handlers.NewIndexHandler(store, stubRefresher{}, stubStatus{}, logger),
	}
	return New(application)
}

func serve(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodPost, "/ask", `{"query":"meaning of life"}`, http.StatusOK},
		{http.MethodGet, "/ask", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/health", "", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/version", "", http.StatusOK},
		{http.MethodGet, "/api/index", "", http.StatusOK},
		{http.MethodDelete, "/api/index", "", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/index/refresh", "", http.StatusOK},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestServer_RequestIDHeader(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodGet, "/", "")
	assert.True(t, strings.HasPrefix(rec.Header().Get("X-Request-ID"), "req_"))

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.Header.Set("X-Request-ID", "client-supplied")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "client-supplied", rec.Header().Get("X-Request-ID"))
}

func TestServer_CORSPreflight(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodOptions, "/ask", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestServer_RecoversFromPanic(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodPost, "/ask", `{"query":"panic"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_AskResponseShape(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodPost, "/ask", `{"query":"meaning of life"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "42", body["answer"])
	assert.Contains(t, body, "retrieved_chunks")
	assert.Contains(t, body, "source_titles")
}

func TestServer_MethodNotAllowedIsJSON(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodDelete, "/api/index", "")

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET", rec.Header().Get("Allow"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Method not allowed", body["error"])
}

func TestServer_IndexIncludesRefreshStatus(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodGet, "/api/index", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "chunks")
	assert.Contains(t, body, "refresh")
}
