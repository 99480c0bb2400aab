package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// split collects every chunk of text into a slice
func split(c *Chunker, text string) []string {
	var out []string
	for chunk := range c.Chunks(text) {
		out = append(out, chunk)
	}
	return out
}

func TestChunks_DropsShortFragments(t *testing.T) {
	long := strings.Repeat("A", 60)
	c := New(Policy{})

	chunks := split(c, long+"\n\nBB")

	require.Len(t, chunks, 1)
	assert.Equal(t, long, chunks[0])
}

func TestChunks_TrimsWhitespace(t *testing.T) {
	para := "This paragraph is comfortably longer than the fifty character floor."
	c := New(Policy{})

	chunks := split(c, "   "+para+"  \n\n\n  \t"+para+"\n")

	require.Len(t, chunks, 2)
	assert.Equal(t, para, chunks[0])
	assert.Equal(t, para, chunks[1])
}

func TestChunks_Restartable(t *testing.T) {
	text := strings.Repeat("x", 55) + "\n\n" + strings.Repeat("y", 70)
	seq := New(Policy{}).Chunks(text)

	var first, second []string
	for chunk := range seq {
		first = append(first, chunk)
	}
	for chunk := range seq {
		second = append(second, chunk)
	}

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestChunks_StopsEarly(t *testing.T) {
	text := strings.Repeat("x", 55) + "\n\n" + strings.Repeat("y", 70) + "\n\n" + strings.Repeat("z", 80)

	count := 0
	for range New(Policy{}).Chunks(text) {
		count++
		if count == 2 {
			break
		}
	}

	assert.Equal(t, 2, count)
}

func TestChunks_WindowsNewlines(t *testing.T) {
	a := strings.Repeat("a", 51)
	b := strings.Repeat("b", 52)

	chunks := split(New(Policy{}), a+"\r\n\r\n"+b)

	assert.Equal(t, []string{a, b}, chunks)
}

func TestChunks_SentenceMode(t *testing.T) {
	s1 := "The first sentence is long enough to pass the minimum length check."
	s2 := "Short one."
	s3 := "The third sentence is also long enough to be kept as its own chunk!"
	c := New(Policy{Delimiter: DelimiterSentence, MinLength: 50})

	chunks := split(c, s1+" "+s2+" "+s3)

	assert.Equal(t, []string{s1, s3}, chunks)
}

func TestChunks_SentenceModeKeepsDecimals(t *testing.T) {
	text := "Version 1.5 of the service raised the limit to 2.5 requests per second for all tenants."
	c := New(Policy{Delimiter: DelimiterSentence, MinLength: 50})

	assert.Equal(t, []string{text}, split(c, text))
}

func TestChunks_CustomMinLength(t *testing.T) {
	c := New(Policy{MinLength: 3})

	assert.Equal(t, []string{"abc", "defg"}, split(c, "abc\n\nde\n\ndefg"))
}

func TestChunks_CountsRunes(t *testing.T) {
	// 50 runes, more than 50 bytes
	text := strings.Repeat("é", 50)

	assert.Equal(t, []string{text}, split(New(Policy{}), text))
}

func TestNew_Defaults(t *testing.T) {
	short := strings.Repeat("s", DefaultMinLength-1)
	first := strings.Repeat("a", DefaultMinLength) + ". " + strings.Repeat("b", DefaultMinLength) + "."
	second := strings.Repeat("c", DefaultMinLength)

	chunks := split(New(Policy{}), short+"\n\n"+first+"\n\n"+second)

	assert.Equal(t, []string{first, second}, chunks)
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    DelimiterMode
		wantErr bool
	}{
		{"", DelimiterParagraph, false},
		{"paragraph", DelimiterParagraph, false},
		{" Sentence ", DelimiterSentence, false},
		{"words", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDelimiter(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
