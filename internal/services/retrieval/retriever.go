package retrieval

import (
	"errors"
	"sort"

	"github.com/ternarybob/askdocs/internal/models"
	"github.com/ternarybob/askdocs/internal/services/index"
)

const (
	// DefaultTopK is the maximum number of chunks returned per query
	DefaultTopK = 3
	// DefaultMinScore is the relevance floor; candidates must score strictly above it
	DefaultMinScore = 0.6
)

// ErrNoCorpus is returned when the published index has no entries
var ErrNoCorpus = errors.New("no corpus available: index is empty")

// ScoredCandidate is an index position and its similarity to the query
type ScoredCandidate struct {
	Position int
	Score    float64
}

// Result holds the surviving chunks in score-descending order
type Result struct {
	Chunks     []models.Chunk
	Candidates []ScoredCandidate
	Sources    []string // De-duplicated, first-seen order
}

// Texts returns the chunk texts in result order
func (r *Result) Texts() []string {
	texts := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		texts[i] = c.Text
	}
	return texts
}

// Snippets pairs each chunk with its score
func (r *Result) Snippets() []models.Snippet {
	snippets := make([]models.Snippet, len(r.Chunks))
	for i, c := range r.Chunks {
		snippets[i] = models.Snippet{Text: c.Text, Source: c.Source, Score: r.Candidates[i].Score}
	}
	return snippets
}

// Option configures a Retriever
type Option func(*Retriever)

// WithTopK sets the candidate limit. Values below 1 are ignored.
func WithTopK(k int) Option {
	return func(r *Retriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithMinScore sets the relevance floor
func WithMinScore(score float64) Option {
	return func(r *Retriever) {
		r.minScore = score
	}
}

// Retriever ranks the published index against a query embedding
type Retriever struct {
	store    *index.Store
	topK     int
	minScore float64
}

// New creates a retriever reading from store
func New(store *index.Store, opts ...Option) *Retriever {
	r := &Retriever{
		store:    store,
		topK:     DefaultTopK,
		minScore: DefaultMinScore,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TopK returns the configured candidate limit
func (r *Retriever) TopK() int { return r.topK }

// MinScore returns the configured relevance floor
func (r *Retriever) MinScore() float64 { return r.minScore }

// Retrieve scores every entry, keeps the best topK and drops any at or below the floor.
// An empty result with a nil error means nothing was relevant.
func (r *Retriever) Retrieve(queryEmbedding []float32) (*Result, error) {
	idx := r.store.Current()
	if idx.Len() == 0 {
		return nil, ErrNoCorpus
	}

	candidates := make([]ScoredCandidate, idx.Len())
	for i := range candidates {
		candidates[i] = ScoredCandidate{
			Position: i,
			Score:    CosineSimilarity(queryEmbedding, idx.Embedding(i)),
		}
	}

	// Stable so equal scores keep insertion order
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > r.topK {
		candidates = candidates[:r.topK]
	}

	result := &Result{
		Chunks:     []models.Chunk{},
		Candidates: []ScoredCandidate{},
		Sources:    []string{},
	}
	seen := make(map[string]bool)
	for _, c := range candidates {
		// Written as a negation so a NaN score is dropped too
		if !(c.Score > r.minScore) {
			continue
		}
		chunk := idx.Chunk(c.Position)
		result.Chunks = append(result.Chunks, chunk)
		result.Candidates = append(result.Candidates, c)
		if !seen[chunk.Source] {
			seen[chunk.Source] = true
			result.Sources = append(result.Sources, chunk.Source)
		}
	}

	return result, nil
}
