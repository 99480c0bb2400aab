package models

// Answer is the result of a single question
type Answer struct {
	Answer          string   `json:"answer"`
	RetrievedChunks []string `json:"retrieved_chunks"`
	SourceTitles    []string `json:"source_titles"`
}

// Generation is the validated outcome of one answer-generator call.
// OK is false when the provider responded but carried no usable text.
type Generation struct {
	Text  string
	OK    bool
	Model string
}

// NewGeneration builds a Generation from extracted provider text
func NewGeneration(text, model string) Generation {
	return Generation{Text: text, OK: text != "", Model: model}
}

// Snippet is a retrieved chunk with its similarity score
type Snippet struct {
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}
