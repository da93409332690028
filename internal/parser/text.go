package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/deckgen/deckgen/internal/section"
	"github.com/deckgen/deckgen/internal/textenc"
)

// TextParser handles plain text files. Raw bytes run through the
// encoding normalizer first, so legacy Big5/GBK exports still parse.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*section.Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	text, enc, err := textenc.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", filename, err)
	}

	doc := &section.Document{Source: filename, Encoding: enc}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			doc.Paragraphs = append(doc.Paragraphs, section.Paragraph{Text: current.String()})
			current.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}
