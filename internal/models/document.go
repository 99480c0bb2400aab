package models

import "time"

const (
	// ContentTypeText is a plain .txt document
	ContentTypeText = "text"
	// ContentTypeMarkdown is a .md document
	ContentTypeMarkdown = "markdown"
)

// Document is a single corpus object as loaded from the document store.
// It is only held while it is being chunked.
type Document struct {
	Name        string `json:"name"`            // Source name (object key or relative path)
	Title       string `json:"title,omitempty"` // From markdown front matter, if any
	ContentType string `json:"content_type"`    // "text" or "markdown"
	Content     string `json:"-"`
}

// Chunk is the minimal retrievable unit of document text
type Chunk struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// DocumentStats summarises how one document was ingested
type DocumentStats struct {
	Name     string `json:"name"`
	Title    string `json:"title,omitempty"`
	Chunks   int    `json:"chunks"`
	Skipped  int    `json:"skipped"` // Chunks dropped because embedding failed
	Failed   bool   `json:"failed"`  // Document could not be fetched
	ErrorMsg string `json:"error,omitempty"`
}

// IndexStats describes the currently published index
type IndexStats struct {
	Chunks    int             `json:"chunks"`
	Dimension int             `json:"dimension"`
	BuiltAt   time.Time       `json:"built_at"`
	Documents []DocumentStats `json:"documents"`
}

// RefreshStatus reports the last rebuild outcome and the refresh schedule
type RefreshStatus struct {
	LastRefresh *time.Time `json:"last_refresh,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	Schedule    string     `json:"schedule,omitempty"` // Empty when scheduled refresh is disabled
	NextRun     *time.Time `json:"next_run,omitempty"`
}
