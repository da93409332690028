package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/deckgen/deckgen/internal/section"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*section.Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	out := &section.Document{Source: filename}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				if t := textContent(n); t != "" {
					out.Paragraphs = append(out.Paragraphs, section.Paragraph{
						Text:         t,
						HeadingLevel: level,
					})
				}
				return // text already extracted
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "blockquote":
				if t := textContent(n); t != "" {
					out.Paragraphs = append(out.Paragraphs, section.Paragraph{
						Text: t,
						Bold: containsBold(n),
					})
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	body := findBody(doc)
	if body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	return out, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// containsBold reports whether the element's entire text sits inside a
// b/strong tag. Used as a chapter-promotion hint for styleless documents.
func containsBold(n *html.Node) bool {
	c := n.FirstChild
	if c == nil || c.NextSibling != nil {
		return false
	}
	return c.Type == html.ElementNode && (c.Data == "b" || c.Data == "strong")
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
