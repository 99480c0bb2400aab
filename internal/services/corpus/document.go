package corpus

import (
	"bytes"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/askdocs/internal/models"
)

// textExtensions lists the object suffixes that reach the chunker
var textExtensions = map[string]string{
	".txt": models.ContentTypeText,
	".md":  models.ContentTypeMarkdown,
}

// IsTextDocument reports whether name is a plain-text document we can chunk
func IsTextDocument(name string) bool {
	_, ok := textExtensions[strings.ToLower(path.Ext(name))]
	return ok
}

// FilterText keeps only .txt and .md names, preserving order
func FilterText(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if IsTextDocument(name) {
			out = append(out, name)
		}
	}
	return out
}

// ToDocument converts raw object bytes into a Document.
// Markdown front matter is removed and its title kept. When plainText is set,
// markdown is rendered to plain text blocks separated by blank lines.
func ToDocument(name string, data []byte, plainText bool) models.Document {
	doc := models.Document{
		Name:        name,
		ContentType: textExtensions[strings.ToLower(path.Ext(name))],
		Content:     string(data),
	}
	if doc.ContentType != models.ContentTypeMarkdown {
		return doc
	}

	title, body := splitFrontMatter(doc.Content)
	doc.Title = title
	doc.Content = body

	if plainText {
		doc.Content = MarkdownToText([]byte(body))
	}
	return doc
}

type frontMatter struct {
	Title string `yaml:"title"`
}

// splitFrontMatter separates a leading YAML block delimited by --- lines.
// The closing delimiter must be a line of exactly ---. Content without one,
// or whose block does not parse as YAML, is returned untouched.
func splitFrontMatter(content string) (string, string) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") {
		return "", content
	}

	rest := normalized[len("---\n"):]
	offset := 0
	for _, line := range strings.SplitAfter(rest, "\n") {
		if strings.TrimRight(line, " \t\n") != "---" {
			offset += len(line)
			continue
		}

		var fm frontMatter
		if err := yaml.Unmarshal([]byte(rest[:offset]), &fm); err != nil {
			return "", content
		}
		return fm.Title, rest[offset+len(line):]
	}
	return "", content
}

// MarkdownToText renders markdown as plain text. Each block (paragraph,
// heading, list item, code block) becomes its own blank-line separated
// paragraph so the paragraph chunker keeps block boundaries.
func MarkdownToText(source []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var blocks []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Paragraph, *ast.Heading, *ast.TextBlock:
			if block := strings.TrimSpace(inlineText(node, source)); block != "" {
				blocks = append(blocks, block)
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if block := strings.TrimSpace(linesText(node, source)); block != "" {
				blocks = append(blocks, block)
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.ThematicBreak:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(blocks, "\n\n")
}

// inlineText concatenates the text of every inline descendant of n
func inlineText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := child.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(source))
			if c.HardLineBreak() {
				buf.WriteByte('\n')
			} else if c.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(c.Value)
		case *ast.AutoLink:
			buf.Write(c.Label(source))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// linesText returns the raw lines of a code block
func linesText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		buf.Write(segment.Value(source))
	}
	return buf.String()
}
