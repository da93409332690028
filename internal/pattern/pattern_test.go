package pattern

import (
	"testing"

	"github.com/deckgen/deckgen/internal/section"
)

func TestMatch_ChapterMarkers(t *testing.T) {
	cases := []struct {
		line string
		kind Kind
	}{
		{"一、概述", KindChineseNumeral},
		{"十、總覽", KindChineseNumeral},
		{"第一章 緒論", KindChapterPrefix},
		{"第貳部分 方法", KindChapterPrefix},
		{"第2章 實驗設計", KindChapterPrefix},
		{"第三、研究範圍", KindChapterPrefix},
		{"1、背景說明", KindArabicNumeral},
		{"2. 研究方法", KindArabicNumeral},
		{"前言", KindSpecialMarker},
		{"結論：本研究發現", KindSpecialMarker},
		{"摘要 本文探討", KindSpecialMarker},
	}

	for _, c := range cases {
		lvl, kind, ok := Match(c.line)
		if !ok {
			t.Errorf("Match(%q): expected a match", c.line)
			continue
		}
		if lvl != section.Chapter {
			t.Errorf("Match(%q): expected chapter level, got %v", c.line, lvl)
		}
		if kind != c.kind {
			t.Errorf("Match(%q): expected kind %v, got %v", c.line, c.kind, kind)
		}
	}
}

func TestMatch_SubtitleMarkers(t *testing.T) {
	cases := []struct {
		line string
		kind Kind
	}{
		{"（一）研究背景", KindParenNumeral},
		{"一）研究背景", KindParenNumeral},
		{"(1) 樣本選取", KindParenNumeral},
		{"2) 資料來源", KindParenNumeral},
		{"(a) 前置條件", KindParenNumeral},
		{"b) 限制", KindParenNumeral},
		{"• 重點整理", KindBullet},
		{"○ 附帶說明", KindBullet},
	}

	for _, c := range cases {
		lvl, kind, ok := Match(c.line)
		if !ok {
			t.Errorf("Match(%q): expected a match", c.line)
			continue
		}
		if lvl != section.Subtitle {
			t.Errorf("Match(%q): expected subtitle level, got %v", c.line, lvl)
		}
		if kind != c.kind {
			t.Errorf("Match(%q): expected kind %v, got %v", c.line, c.kind, kind)
		}
	}
}

func TestMatch_RejectsMidSentenceNumerals(t *testing.T) {
	// Numbering conventions only count at line start with their
	// trailing delimiter; prose mentioning numbers must stay content.
	lines := []string{
		"在第2個月內完成初步分析",
		"實驗使用了 3 組樣本",
		"成長率為1.5倍",
		"如第一節所述的方法",
		"計畫分為三、四個階段",
		"",
		"   ",
	}
	for _, line := range lines {
		if _, kind, ok := Match(line); ok {
			t.Errorf("Match(%q): expected no match, got kind %v", line, kind)
		}
	}
}

func TestMatch_ArabicDotNeedsBoundary(t *testing.T) {
	// "1. " is a marker, "1.5公斤" is a decimal.
	if _, _, ok := Match("1. 導論"); !ok {
		t.Error("expected '1. 導論' to match")
	}
	if _, _, ok := Match("1."); !ok {
		t.Error("expected bare '1.' to match")
	}
	if _, _, ok := Match("1.5公斤的樣本"); ok {
		t.Error("expected decimal '1.5公斤' not to match")
	}
}

func TestMatch_FirstRuleWins(t *testing.T) {
	// 第一、 is a chapter prefix, not a bare Chinese numeral.
	_, kind, ok := Match("第一、研究動機")
	if !ok {
		t.Fatal("expected a match")
	}
	if kind != KindChapterPrefix {
		t.Errorf("expected chapter_prefix to win, got %v", kind)
	}
}

func TestStripChapter(t *testing.T) {
	cases := []struct{ in, want string }{
		{"一、概述", "概述"},
		{"第三章 研究方法", "研究方法"},
		{"第1章結果", "結果"},
		{"2. 討論", "討論"},
		{"A、附錄", "附錄"},
		{"● 大綱", "大綱"},
		{"概述", "概述"},
	}
	for _, c := range cases {
		if got := StripChapter(c.in); got != c.want {
			t.Errorf("StripChapter(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestStripSubtitle(t *testing.T) {
	cases := []struct{ in, want string }{
		{"（一）研究背景", "研究背景"},
		{"1) 樣本", "樣本"},
		{"(a) 條件", "條件"},
		{"• 重點", "重點"},
		{"重點", "重點"},
	}
	for _, c := range cases {
		if got := StripSubtitle(c.in); got != c.want {
			t.Errorf("StripSubtitle(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}
