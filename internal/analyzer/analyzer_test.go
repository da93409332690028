package analyzer

import (
	"errors"
	"strings"
	"testing"

	"github.com/deckgen/deckgen/internal/section"
)

func docOf(lines ...string) *section.Document {
	doc := &section.Document{Source: "test.txt"}
	for _, l := range lines {
		doc.Paragraphs = append(doc.Paragraphs, section.Paragraph{Text: l})
	}
	return doc
}

func TestAnalyze_ChapterScenario(t *testing.T) {
	doc := docOf(
		"年度研究報告",
		"一、概述",
		"本年度共完成三項計畫。",
		"二、成果",
		"各項計畫均如期結案。",
	)

	root, err := Analyze(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Level != section.Header {
		t.Errorf("expected header root, got %v", root.Level)
	}
	if root.Text != "年度研究報告" {
		t.Errorf("expected first paragraph as header, got %q", root.Text)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(root.Children))
	}
	for i, ch := range root.Children {
		if ch.Level != section.Chapter {
			t.Errorf("child %d: expected chapter, got %v", i, ch.Level)
		}
		if len(ch.Children) != 1 || ch.Children[0].Level != section.Content {
			t.Errorf("chapter %d: expected exactly one content child", i)
		}
	}
	if d := root.Depth(); d != 3 {
		t.Errorf("expected depth 3, got %d", d)
	}
}

func TestAnalyze_ChapterMarkerOpensDocument(t *testing.T) {
	// No title line: the first paragraph is already a chapter and must
	// open one instead of being consumed as the header.
	doc := docOf(
		"一、概述",
		"內容A",
		"二、結論",
		"內容B",
	)

	root, err := Analyze(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Level != section.Header {
		t.Errorf("expected header root, got %v", root.Level)
	}
	if root.Text != "test" {
		t.Errorf("expected filename-derived header, got %q", root.Text)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(root.Children))
	}
	for i, want := range []string{"一、概述", "二、結論"} {
		ch := root.Children[i]
		if ch.Level != section.Chapter || ch.Text != want {
			t.Errorf("chapter %d: expected %q, got %v %q", i, want, ch.Level, ch.Text)
		}
		if len(ch.Children) != 1 || ch.Children[0].Level != section.Content {
			t.Errorf("chapter %d: expected exactly one content child", i)
		}
	}
	if got := root.Children[1].Children[0].Text; got != "內容B" {
		t.Errorf("expected content under the second chapter, got %q", got)
	}
}

func TestAnalyze_SubtitleNesting(t *testing.T) {
	doc := docOf(
		"標題",
		"一、方法",
		"（一）樣本",
		"共收集五十份樣本。",
		"（二）流程",
		"二、結果",
	)

	root, err := Analyze(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(root.Children))
	}
	ch := root.Children[0]
	if len(ch.Children) != 2 {
		t.Fatalf("expected 2 subtitles under first chapter, got %d", len(ch.Children))
	}
	sub := ch.Children[0]
	if sub.Level != section.Subtitle {
		t.Errorf("expected subtitle, got %v", sub.Level)
	}
	if len(sub.Children) != 1 || sub.Children[0].Level != section.Content {
		t.Error("expected content nested under the subtitle")
	}
	if d := root.Depth(); d != 4 {
		t.Errorf("expected depth 4, got %d", d)
	}
}

func TestAnalyze_MidSentenceNumeralStaysContent(t *testing.T) {
	doc := docOf(
		"計畫書",
		"一、時程",
		"在第2個月內完成初步分析",
	)

	root, err := Analyze(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected 1 chapter, got %d", len(root.Children))
	}
	ch := root.Children[0]
	if len(ch.Children) != 1 || ch.Children[0].Level != section.Content {
		t.Fatal("expected the prose line to attach as content")
	}
	if ch.Children[0].Text != "在第2個月內完成初步分析" {
		t.Errorf("unexpected content text %q", ch.Children[0].Text)
	}
}

func TestAnalyze_FlatDocumentCollapses(t *testing.T) {
	doc := docOf(
		"會議記錄",
		"出席者共十二人。",
		"討論事項如附件。",
		"下次會議另行通知。",
	)

	root, err := Analyze(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected a single flat content child, got %d children", len(root.Children))
	}
	c := root.Children[0]
	if c.Level != section.Content {
		t.Errorf("expected content, got %v", c.Level)
	}
	if !strings.Contains(c.Text, "出席者") || !strings.Contains(c.Text, "另行通知") {
		t.Errorf("expected merged paragraphs, got %q", c.Text)
	}
}

func TestAnalyze_NoContent(t *testing.T) {
	for _, doc := range []*section.Document{
		docOf(),
		docOf("", "   ", "\t"),
	} {
		_, err := Analyze(doc)
		if err == nil {
			t.Fatal("expected error for empty document")
		}
		if !errors.Is(err, ErrNoContent) {
			t.Errorf("expected ErrNoContent, got %v", err)
		}
	}
}

func TestAnalyze_BoldPromotionWithoutMarkers(t *testing.T) {
	doc := &section.Document{Source: "styled.docx"}
	doc.Paragraphs = []section.Paragraph{
		{Text: "簡報標題"},
		{Text: "背景說明", Bold: true},
		{Text: "詳細內容第一段。"},
	}

	root, err := Analyze(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected bold paragraph promoted to chapter, got %d children", len(root.Children))
	}
	ch := root.Children[0]
	if ch.Level != section.Chapter || ch.Text != "背景說明" {
		t.Errorf("expected chapter %q, got %v %q", "背景說明", ch.Level, ch.Text)
	}
	if len(ch.Children) != 1 {
		t.Errorf("expected the following paragraph under the promoted chapter")
	}
}

func TestAnalyze_HeadingStyleHints(t *testing.T) {
	doc := &section.Document{Source: "doc.md"}
	doc.Paragraphs = []section.Paragraph{
		{Text: "文件標題", HeadingLevel: 1},
		{Text: "章節甲", HeadingLevel: 1},
		{Text: "小節", HeadingLevel: 2},
		{Text: "內文一段。"},
	}

	root, err := Analyze(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected 1 chapter, got %d", len(root.Children))
	}
	ch := root.Children[0]
	if ch.Level != section.Chapter {
		t.Errorf("expected h1 to become a chapter, got %v", ch.Level)
	}
	if len(ch.Children) != 1 || ch.Children[0].Level != section.Subtitle {
		t.Fatal("expected h2 to become a subtitle under the chapter")
	}
	if len(ch.Children[0].Children) != 1 {
		t.Error("expected the body paragraph under the subtitle")
	}
}

func TestAnalyze_ContentNeverHasChildren(t *testing.T) {
	doc := docOf(
		"標題",
		"一、章",
		"內文",
		"（一）小節",
		"更多內文",
	)
	root, err := Analyze(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	root.Walk(func(s *section.Section) {
		if s.Level == section.Content && len(s.Children) > 0 {
			t.Errorf("content section %q has children", s.Text)
		}
	})
}
