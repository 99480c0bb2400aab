package answer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/askdocs/internal/models"
	"github.com/ternarybob/askdocs/internal/services/index"
	"github.com/ternarybob/askdocs/internal/services/retrieval"
)

func createTestLogger() arbor.ILogger {
	return arbor.NewLogger()
}

type mockEmbedder struct {
	embedFunc func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return m.embedFunc(ctx, text)
}
func (m *mockEmbedder) Name() string { return "mock-embedder" }
func (m *mockEmbedder) Close() error { return nil }

type mockGenerator struct {
	generateFunc func(ctx context.Context, prompt string) (models.Generation, error)
	lastPrompt   string
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (models.Generation, error) {
	m.lastPrompt = prompt
	return m.generateFunc(ctx, prompt)
}
func (m *mockGenerator) Name() string { return "mock-generator" }
func (m *mockGenerator) Close() error { return nil }

func fixedEmbedder(vec []float32) *mockEmbedder {
	return &mockEmbedder{embedFunc: func(ctx context.Context, text string) ([]float32, error) {
		return vec, nil
	}}
}

func textGenerator(text string) *mockGenerator {
	return &mockGenerator{generateFunc: func(ctx context.Context, prompt string) (models.Generation, error) {
		return models.NewGeneration(text, "mock"), nil
	}}
}

// newTestStore publishes an index with one chunk aligned to the x axis and one to the y axis
func newTestStore(t *testing.T) *index.Store {
	t.Helper()
	idx := index.New()
	require.NoError(t, idx.Add(models.Chunk{Text: "Install with go install.", Source: "setup.txt"}, []float32{1, 0}))
	require.NoError(t, idx.Add(models.Chunk{Text: "Billing runs monthly.", Source: "billing.md"}, []float32{0, 1}))
	store := index.NewStore()
	store.Publish(idx)
	return store
}

func newTestService(store *index.Store, embedder *mockEmbedder, generator *mockGenerator) *Service {
	return NewService(embedder, generator, retrieval.New(store), time.Second, createTestLogger())
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt([]string{"first", "second"}, "How do I install?")

	assert.True(t, strings.HasPrefix(prompt, "You are an expert technical assistant for Fidgetech."))
	assert.Contains(t, prompt, "Retrieved Information:\n- first\n- second\n\nUser's Question: How do I install?")
	assert.NotContains(t, prompt, noContext)
}

func TestBuildPrompt_NoContext(t *testing.T) {
	prompt := BuildPrompt(nil, "anything")

	assert.Contains(t, prompt, "Retrieved Information:\nNo relevant information found.\n\nUser's Question: anything")
	assert.NotContains(t, prompt, "- ")
}

func TestAnswer_Success(t *testing.T) {
	generator := textGenerator("Run go install.")
	svc := newTestService(newTestStore(t), fixedEmbedder([]float32{1, 0.1}), generator)

	result, err := svc.Answer(context.Background(), "  How do I install?  ")

	require.NoError(t, err)
	assert.Equal(t, "Run go install.", result.Answer)
	assert.Equal(t, []string{"Install with go install."}, result.RetrievedChunks)
	assert.Equal(t, []string{"setup.txt"}, result.SourceTitles)
	assert.Contains(t, generator.lastPrompt, "- Install with go install.")
	assert.Contains(t, generator.lastPrompt, "User's Question: How do I install?")
}

func TestAnswer_NoRelevantChunks(t *testing.T) {
	generator := textGenerator("I cannot find the answer in the provided documents.")
	svc := newTestService(newTestStore(t), fixedEmbedder([]float32{-1, -1}), generator)

	result, err := svc.Answer(context.Background(), "Unrelated?")

	require.NoError(t, err)
	assert.NotNil(t, result.RetrievedChunks)
	assert.NotNil(t, result.SourceTitles)
	assert.Empty(t, result.RetrievedChunks)
	assert.Empty(t, result.SourceTitles)
	assert.Contains(t, generator.lastPrompt, "No relevant information found.")
}

func TestAnswer_FallbackOnEmptyGeneration(t *testing.T) {
	svc := newTestService(newTestStore(t), fixedEmbedder([]float32{1, 0}), textGenerator(""))

	result, err := svc.Answer(context.Background(), "How do I install?")

	require.NoError(t, err)
	assert.Equal(t, FallbackAnswer, result.Answer)
	assert.Equal(t, "Sorry, I couldn't generate a response.", result.Answer)
}

func TestAnswer_Errors(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		store     func(t *testing.T) *index.Store
		embedder  *mockEmbedder
		generator *mockGenerator
		wantErr   error
	}{
		{
			name:      "empty query",
			query:     "   ",
			store:     newTestStore,
			embedder:  fixedEmbedder([]float32{1, 0}),
			generator: textGenerator("x"),
			wantErr:   ErrEmptyQuery,
		},
		{
			name:  "embedding failure",
			query: "q",
			store: newTestStore,
			embedder: &mockEmbedder{embedFunc: func(ctx context.Context, text string) ([]float32, error) {
				return nil, errors.New("quota exceeded")
			}},
			generator: textGenerator("x"),
			wantErr:   ErrEmbedding,
		},
		{
			name:      "empty index",
			query:     "q",
			store:     func(t *testing.T) *index.Store { return index.NewStore() },
			embedder:  fixedEmbedder([]float32{1, 0}),
			generator: textGenerator("x"),
			wantErr:   retrieval.ErrNoCorpus,
		},
		{
			name:     "generation failure",
			query:    "q",
			store:    newTestStore,
			embedder: fixedEmbedder([]float32{1, 0}),
			generator: &mockGenerator{generateFunc: func(ctx context.Context, prompt string) (models.Generation, error) {
				return models.Generation{}, errors.New("model overloaded")
			}},
			wantErr: ErrGeneration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(tt.store(t), tt.embedder, tt.generator)

			result, err := svc.Answer(context.Background(), tt.query)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
		})
	}
}

func TestAnswer_ErrorKeepsProviderDetails(t *testing.T) {
	embedder := &mockEmbedder{embedFunc: func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("quota exceeded")
	}}
	svc := newTestService(newTestStore(t), embedder, textGenerator("x"))

	_, err := svc.Answer(context.Background(), "q")

	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestRetrieve_Snippets(t *testing.T) {
	svc := newTestService(newTestStore(t), fixedEmbedder([]float32{0, 1}), textGenerator("x"))

	result, err := svc.Retrieve(context.Background(), "billing")

	require.NoError(t, err)
	snippets := result.Snippets()
	require.Len(t, snippets, 1)
	assert.Equal(t, "billing.md", snippets[0].Source)
	assert.InDelta(t, 1.0, snippets[0].Score, 1e-9)
}
