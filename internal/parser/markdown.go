package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/deckgen/deckgen/internal/section"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*section.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	out := &section.Document{Source: filename}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := string(node.Text(src))
			if title == "" {
				continue
			}
			out.Paragraphs = append(out.Paragraphs, section.Paragraph{
				Text:         title,
				HeadingLevel: node.Level,
			})
		default:
			// Non-heading blocks become plain paragraphs.
			t := extractText(n, src)
			if t != "" {
				out.Paragraphs = append(out.Paragraphs, section.Paragraph{Text: t})
			}
		}
	}

	return out, nil
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			if s := extractText(c, src); s != "" {
				buf.WriteString(s)
				buf.WriteByte('\n')
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
