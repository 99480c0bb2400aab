package chunker

import (
	"fmt"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DelimiterMode selects how document text is split into chunk candidates
type DelimiterMode string

const (
	// DelimiterParagraph splits on blank lines
	DelimiterParagraph DelimiterMode = "paragraph"
	// DelimiterSentence splits on blank lines, then after . ! or ? followed by whitespace
	DelimiterSentence DelimiterMode = "sentence"
)

// DefaultMinLength is the minimum trimmed rune count for a chunk
const DefaultMinLength = 50

// Policy configures chunk boundaries
type Policy struct {
	Delimiter DelimiterMode
	MinLength int
}

// ParseDelimiter converts a config string to a DelimiterMode
func ParseDelimiter(s string) (DelimiterMode, error) {
	switch DelimiterMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", DelimiterParagraph:
		return DelimiterParagraph, nil
	case DelimiterSentence:
		return DelimiterSentence, nil
	default:
		return "", fmt.Errorf("unknown chunk delimiter %q (expected paragraph or sentence)", s)
	}
}

// Chunker splits document text into trimmed, non-trivial segments
type Chunker struct {
	policy Policy
}

// New creates a chunker. A non-positive MinLength falls back to DefaultMinLength.
func New(policy Policy) *Chunker {
	if policy.MinLength <= 0 {
		policy.MinLength = DefaultMinLength
	}
	if policy.Delimiter == "" {
		policy.Delimiter = DelimiterParagraph
	}
	return &Chunker{policy: policy}
}

// Chunks returns a lazy sequence over the chunks of text.
// The sequence can be ranged over any number of times and yields the same values.
func (c *Chunker) Chunks(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		normalized := strings.ReplaceAll(text, "\r\n", "\n")
		for paragraph := range strings.SplitSeq(normalized, "\n\n") {
			if c.policy.Delimiter == DelimiterSentence {
				for sentence := range sentences(paragraph) {
					if !c.emit(sentence, yield) {
						return
					}
				}
				continue
			}
			if !c.emit(paragraph, yield) {
				return
			}
		}
	}
}

// emit yields piece if it survives trimming and the length floor.
// It returns false when the consumer stopped the iteration.
func (c *Chunker) emit(piece string, yield func(string) bool) bool {
	trimmed := strings.TrimSpace(piece)
	if utf8.RuneCountInString(trimmed) < c.policy.MinLength {
		return true
	}
	return yield(trimmed)
}

// sentences splits s after each terminal punctuation mark that is followed by whitespace
func sentences(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := 0
		runes := []rune(s)
		for i, r := range runes {
			if r != '.' && r != '!' && r != '?' {
				continue
			}
			if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
				continue
			}
			if !yield(string(runes[start : i+1])) {
				return
			}
			start = i + 1
		}
		if start < len(runes) {
			yield(string(runes[start:]))
		}
	}
}
