package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_HeadingsAndParagraphs(t *testing.T) {
	input := `<html><head><title>ignored</title></head><body>
<h1>文件標題</h1>
<p>第一段內容。</p>
<h2>小節</h2>
<p><strong>重點段落</strong></p>
<script>var ignored = 1;</script>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Paragraphs) != 4 {
		t.Fatalf("expected 4 paragraphs, got %d: %+v", len(doc.Paragraphs), doc.Paragraphs)
	}
	if doc.Paragraphs[0].HeadingLevel != 1 || doc.Paragraphs[0].Text != "文件標題" {
		t.Errorf("unexpected h1 paragraph %+v", doc.Paragraphs[0])
	}
	if doc.Paragraphs[2].HeadingLevel != 2 {
		t.Errorf("expected h2, got %+v", doc.Paragraphs[2])
	}
	if !doc.Paragraphs[3].Bold {
		t.Error("expected fully-bold paragraph flagged as bold")
	}
	for _, para := range doc.Paragraphs {
		if strings.Contains(para.Text, "ignored") {
			t.Errorf("expected script/head content skipped, got %q", para.Text)
		}
	}
}

func TestHTMLParser_PartialBoldIsNotBold(t *testing.T) {
	input := `<body><p>開頭<strong>部分粗體</strong>結尾</p></body>`
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Paragraphs) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(doc.Paragraphs))
	}
	if doc.Paragraphs[0].Bold {
		t.Error("expected mixed paragraph not flagged bold")
	}
}

func TestHTMLParser_SkipsNavAndFooter(t *testing.T) {
	input := `<body><nav><p>選單</p></nav><p>正文</p><footer><p>頁尾</p></footer></body>`
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Paragraphs) != 1 || doc.Paragraphs[0].Text != "正文" {
		t.Errorf("expected only the body paragraph, got %+v", doc.Paragraphs)
	}
}
