// Package analyzer turns an ordered paragraph sequence into a section
// tree using the pattern rule table plus the style hints the source
// format provides.
package analyzer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/deckgen/deckgen/internal/pattern"
	"github.com/deckgen/deckgen/internal/section"
)

// ErrNoContent is returned when a document has zero non-empty paragraphs.
var ErrNoContent = errors.New("no parseable content")

// Analyze builds the section tree for a document. The first non-empty
// paragraph becomes the Header unless it already carries a chapter
// marker; remaining paragraphs are classified by the pattern matcher
// and nested with a level stack. Unmatched paragraphs attach as
// Content children of the current section.
func Analyze(doc *section.Document) (*section.Section, error) {
	paras := nonEmpty(doc.Paragraphs)
	if len(paras) == 0 {
		return nil, fmt.Errorf("%s: %w", doc.Source, ErrNoContent)
	}

	root := &section.Section{Level: section.Header}
	rest := paras
	first := strings.TrimSpace(paras[0].Text)
	if lvl, _, ok := pattern.Match(first); ok && lvl == section.Chapter {
		// The document opens with a chapter marker, so there is no
		// title line to consume. The filename stands in as the title.
		root.Text = sourceTitle(doc.Source)
	} else {
		root.Text = first
		rest = paras[1:]
	}

	// If nothing after the header matches a chapter rule, promote the
	// first bold or heading-styled paragraph so the document still gets
	// a chapter spine.
	forced := -1
	if !anyChapterMatch(rest) {
		for i, p := range rest {
			if p.Bold || p.HeadingLevel > 0 {
				forced = i
				break
			}
		}
	}

	stack := []*section.Section{root}
	for i, p := range rest {
		text := strings.TrimSpace(p.Text)

		lvl, _, ok := pattern.Match(text)
		if !ok && p.HeadingLevel > 0 {
			// Source-format heading styles count even without a
			// recognizable numbering marker.
			lvl, ok = section.Subtitle, true
			if p.HeadingLevel == 1 {
				lvl = section.Chapter
			}
		}
		if i == forced {
			lvl, ok = section.Chapter, true
		}
		if !ok {
			top := stack[len(stack)-1]
			top.AddChild(&section.Section{Level: section.Content, Text: text})
			continue
		}

		// Pop until the matched level would be a direct child of the top.
		for len(stack) > 1 && stack[len(stack)-1].Level >= lvl {
			stack = stack[:len(stack)-1]
		}
		s := &section.Section{Level: lvl, Text: text}
		stack[len(stack)-1].AddChild(s)
		stack = append(stack, s)
	}

	collapseFlat(root)
	return root, nil
}

// collapseFlat merges a structure-free document into a single flat
// Content section under the header, instead of one child per paragraph.
func collapseFlat(root *section.Section) {
	for _, c := range root.Children {
		if c.Level != section.Content {
			return
		}
	}
	if len(root.Children) <= 1 {
		return
	}
	parts := make([]string, 0, len(root.Children))
	for _, c := range root.Children {
		parts = append(parts, c.Text)
	}
	root.Children = []*section.Section{{
		Level: section.Content,
		Text:  strings.Join(parts, "\n\n"),
	}}
}

func anyChapterMatch(paras []section.Paragraph) bool {
	for _, p := range paras {
		if p.HeadingLevel == 1 {
			return true
		}
		if lvl, _, ok := pattern.Match(strings.TrimSpace(p.Text)); ok && lvl == section.Chapter {
			return true
		}
	}
	return false
}

// sourceTitle derives a deck title from the input filename.
func sourceTitle(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return base
}

func nonEmpty(paras []section.Paragraph) []section.Paragraph {
	out := make([]section.Paragraph, 0, len(paras))
	for _, p := range paras {
		if strings.TrimSpace(p.Text) != "" {
			out = append(out, p)
		}
	}
	return out
}
