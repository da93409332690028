// Package pattern classifies lines of text against a fixed set of
// Chinese/Arabic numbering conventions. Rules are an ordered table;
// the first matching rule wins, so adding a new convention is adding
// a row in the right position.
package pattern

import (
	"regexp"
	"strings"

	"github.com/deckgen/deckgen/internal/section"
)

// Kind tags the numbering convention a rule recognizes.
type Kind int

const (
	KindNone           Kind = iota
	KindChapterPrefix       // 第X章 / 第X節 / 第X部分
	KindChineseNumeral      // 一、 二、
	KindArabicNumeral       // 1. 2、
	KindSpecialMarker       // 前言 / 結論 / 摘要 ...
	KindParenNumeral        // (一) 一） (1) 1) (a) a)
	KindBullet              // • · ○
)

func (k Kind) String() string {
	switch k {
	case KindChapterPrefix:
		return "chapter_prefix"
	case KindChineseNumeral:
		return "chinese_numeral"
	case KindArabicNumeral:
		return "arabic_numeral"
	case KindSpecialMarker:
		return "special_marker"
	case KindParenNumeral:
		return "paren_numeral"
	case KindBullet:
		return "bullet"
	}
	return "none"
}

// Rule is one matcher row: the convention it recognizes and the level
// a match implies.
type Rule struct {
	Kind  Kind
	Level section.Level
	re    *regexp.Regexp
}

// Every expression is anchored at line start and requires the trailing
// delimiter of the convention, so a numeral inside a sentence
// (e.g. 在第2個月內) never matches.
var rules = []Rule{
	{KindChapterPrefix, section.Chapter, regexp.MustCompile(`^第[一二三四五六七八九十壹貳參肆伍陸柒捌玖拾]+[章節部分]`)},
	{KindChapterPrefix, section.Chapter, regexp.MustCompile(`^第[1-9][0-9]*[章節部分]`)},
	{KindChapterPrefix, section.Chapter, regexp.MustCompile(`^第[一二三四五六七八九十]+[、．.]`)},
	{KindChapterPrefix, section.Chapter, regexp.MustCompile(`^第[1-9][0-9]*[、．]`)},
	{KindChineseNumeral, section.Chapter, regexp.MustCompile(`^[一二三四五六七八九十]+[、．.]`)},
	{KindArabicNumeral, section.Chapter, regexp.MustCompile(`^[1-9][0-9]*(?:[、．]|\.(?:\s|$))`)},
	{KindSpecialMarker, section.Chapter, regexp.MustCompile(`^(?:前言|結論|總結|概述|摘要|序言|引言)(?:$|[：:、\s])`)},
	{KindParenNumeral, section.Subtitle, regexp.MustCompile(`^[一二三四五六七八九十]+[）)]`)},
	{KindParenNumeral, section.Subtitle, regexp.MustCompile(`^[（(][一二三四五六七八九十]+[）)]`)},
	{KindParenNumeral, section.Subtitle, regexp.MustCompile(`^[1-9][0-9]*[）)]`)},
	{KindParenNumeral, section.Subtitle, regexp.MustCompile(`^[（(][1-9][0-9]*[）)]`)},
	{KindParenNumeral, section.Subtitle, regexp.MustCompile(`^[a-z][）)]`)},
	{KindParenNumeral, section.Subtitle, regexp.MustCompile(`^[（(][a-z][）)]`)},
	{KindBullet, section.Subtitle, regexp.MustCompile(`^[•·○]`)},
}

// Match classifies a line. It reports the level the first matching rule
// implies, the rule's kind, and whether any rule matched at all.
func Match(line string) (section.Level, Kind, bool) {
	for _, r := range rules {
		if r.re.MatchString(line) {
			return r.Level, r.Kind, true
		}
	}
	return section.Content, KindNone, false
}

var chapterStrip = []*regexp.Regexp{
	regexp.MustCompile(`^[一二三四五六七八九十]+[、．.]\s*`),
	regexp.MustCompile(`^第[一二三四五六七八九十壹貳參肆伍陸柒捌玖拾]+[章節部分]\s*`),
	regexp.MustCompile(`^第[一二三四五六七八九十]+[、．.]\s*`),
	regexp.MustCompile(`^[1-9][0-9]*[、．.]\s*`),
	regexp.MustCompile(`^第[1-9][0-9]*[章節部分]\s*`),
	regexp.MustCompile(`^第[1-9][0-9]*[、．.]\s*`),
	regexp.MustCompile(`^[A-Z][、．.]\s*`),
	regexp.MustCompile(`^第[A-Z][章節部分]\s*`),
	regexp.MustCompile(`^[●◆■▲]\s*`),
}

var subtitleStrip = []*regexp.Regexp{
	regexp.MustCompile(`^[一二三四五六七八九十]+[）)]\s*`),
	regexp.MustCompile(`^[（(][一二三四五六七八九十]+[）)]\s*`),
	regexp.MustCompile(`^[1-9][0-9]*[）)]\s*`),
	regexp.MustCompile(`^[（(][1-9][0-9]*[）)]\s*`),
	regexp.MustCompile(`^[a-z][）)]\s*`),
	regexp.MustCompile(`^[（(][a-z][）)]\s*`),
	regexp.MustCompile(`^[•·○]\s*`),
}

// StripChapter removes a leading chapter numbering marker for display.
func StripChapter(text string) string {
	return strip(text, chapterStrip)
}

// StripSubtitle removes a leading subtitle marker for display.
func StripSubtitle(text string) string {
	return strip(text, subtitleStrip)
}

func strip(text string, pats []*regexp.Regexp) string {
	for _, re := range pats {
		text = re.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}
