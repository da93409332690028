package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_Headings(t *testing.T) {
	input := "# 文件標題\n\n前言段落。\n\n## 第一節\n\n內容一。\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Paragraphs) != 4 {
		t.Fatalf("expected 4 paragraphs, got %d: %+v", len(doc.Paragraphs), doc.Paragraphs)
	}
	if doc.Paragraphs[0].HeadingLevel != 1 || doc.Paragraphs[0].Text != "文件標題" {
		t.Errorf("unexpected first paragraph %+v", doc.Paragraphs[0])
	}
	if doc.Paragraphs[1].HeadingLevel != 0 {
		t.Errorf("expected plain paragraph, got heading level %d", doc.Paragraphs[1].HeadingLevel)
	}
	if doc.Paragraphs[2].HeadingLevel != 2 {
		t.Errorf("expected h2, got level %d", doc.Paragraphs[2].HeadingLevel)
	}
}

func TestMarkdownParser_ListItems(t *testing.T) {
	input := "# 標題\n\n- 第一點\n- 第二點\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "list.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var all []string
	for _, para := range doc.Paragraphs {
		all = append(all, para.Text)
	}
	joined := strings.Join(all, "\n")
	if !strings.Contains(joined, "第一點") || !strings.Contains(joined, "第二點") {
		t.Errorf("expected list items in output, got %v", all)
	}
}

func TestMarkdownParser_Empty(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Paragraphs) != 0 {
		t.Errorf("expected no paragraphs, got %d", len(doc.Paragraphs))
	}
}
