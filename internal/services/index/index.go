package index

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ternarybob/askdocs/internal/models"
)

var (
	// ErrDimensionMismatch is returned when an embedding's length differs from the index dimension
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrEmptyChunk is returned for a chunk with no text
	ErrEmptyChunk = errors.New("chunk text is empty")
	// ErrEmptyEmbedding is returned for a zero-length embedding
	ErrEmptyEmbedding = errors.New("embedding is empty")
	// ErrNonFiniteEmbedding is returned when an embedding holds NaN or Inf
	ErrNonFiniteEmbedding = errors.New("embedding has non-finite values")
)

// Index holds chunks and their embeddings in two position-aligned slices.
// Entries are only ever added as a pair. An Index is built by a single
// goroutine and then published read-only through a Store.
type Index struct {
	chunks     []models.Chunk
	embeddings [][]float32
	dimension  int
	documents  []models.DocumentStats
	builtAt    time.Time
}

// New creates an empty index
func New() *Index {
	return &Index{}
}

// Add appends a chunk and its embedding together.
// Nothing is stored if either fails validation.
func (idx *Index) Add(chunk models.Chunk, embedding []float32) error {
	if strings.TrimSpace(chunk.Text) == "" {
		return ErrEmptyChunk
	}
	if len(embedding) == 0 {
		return ErrEmptyEmbedding
	}
	if idx.dimension != 0 && len(embedding) != idx.dimension {
		return fmt.Errorf("%w: index has %d, got %d", ErrDimensionMismatch, idx.dimension, len(embedding))
	}
	for i, v := range embedding {
		if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: component %d is %v", ErrNonFiniteEmbedding, i, v)
		}
	}

	if idx.dimension == 0 {
		idx.dimension = len(embedding)
	}
	idx.chunks = append(idx.chunks, chunk)
	idx.embeddings = append(idx.embeddings, embedding)
	return nil
}

// Len returns the number of entries
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.chunks)
}

// Dimension returns the shared embedding length, or 0 for an empty index
func (idx *Index) Dimension() int {
	if idx == nil {
		return 0
	}
	return idx.dimension
}

// Chunk returns the chunk at position i
func (idx *Index) Chunk(i int) models.Chunk {
	return idx.chunks[i]
}

// Embedding returns the embedding at position i
func (idx *Index) Embedding(i int) []float32 {
	return idx.embeddings[i]
}

// RecordDocument stores per-document ingestion stats for reporting
func (idx *Index) RecordDocument(stats models.DocumentStats) {
	idx.documents = append(idx.documents, stats)
}

// Seal stamps the build time. Call once the build is complete.
func (idx *Index) Seal() {
	idx.builtAt = time.Now()
}

// Stats summarises the index contents
func (idx *Index) Stats() models.IndexStats {
	if idx == nil {
		return models.IndexStats{Documents: []models.DocumentStats{}}
	}
	docs := make([]models.DocumentStats, len(idx.documents))
	copy(docs, idx.documents)
	return models.IndexStats{
		Chunks:    len(idx.chunks),
		Dimension: idx.dimension,
		BuiltAt:   idx.builtAt,
		Documents: docs,
	}
}
