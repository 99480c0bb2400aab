package interfaces

import "context"

// CorpusLoader enumerates and fetches documents from a document store
type CorpusLoader interface {
	// List returns the names of every object in the store.
	// An error here means the corpus is unreachable.
	List(ctx context.Context) ([]string, error)

	// Fetch returns the raw bytes of one named object
	Fetch(ctx context.Context, name string) ([]byte, error)

	// Location describes where the corpus lives (bucket or directory)
	Location() string

	Close() error
}
