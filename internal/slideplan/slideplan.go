// Package slideplan maps a section tree onto template slide layouts.
// The plan is the ordered slide list consumed by the deck writer and
// the preview renderer.
package slideplan

import (
	"strings"

	"github.com/deckgen/deckgen/internal/pattern"
	"github.com/deckgen/deckgen/internal/section"
)

// FontFloorPt is the minimum font size that may appear in a plan.
// Sizes computed below the floor are clamped up and the title wraps
// instead of shrinking further.
const FontFloorPt = 32

// Kind classifies a planned slide.
type Kind int

const (
	KindTitle        Kind = iota // document title slide
	KindChapter                  // chapter lead slide
	KindContinuation             // overflow / subtitle slide within a chapter
)

// Slide is one planned output slide.
type Slide struct {
	Layout      string // template layout name, "" means writer default
	Kind        Kind
	Title       string
	TitleSizePt float64
	BodySizePt  float64
	TitleWraps  bool
	Body        []string
}

// Plan is the ordered mapping from sections to output slides.
type Plan struct {
	Slides []Slide
}

// ChapterSlides counts chapter lead slides (continuations excluded).
func (p *Plan) ChapterSlides() int {
	n := 0
	for _, s := range p.Slides {
		if s.Kind == KindChapter {
			n++
		}
	}
	return n
}

// Config controls slide batching. Thresholds are tunable, not constants.
type Config struct {
	MaxSlideUnits int     // max estimated display units of body text per slide
	MaxItems      int     // max body items per slide
	TitleSizePt   float64 // base title size before shrinking
	BodySizePt    float64 // base body size
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxSlideUnits: 220,
		MaxItems:      4,
		TitleSizePt:   44,
		BodySizePt:    32,
	}
}

// Build walks the section tree and emits the slide plan. It never
// fails: missing layouts fall back to the template default.
func Build(root *section.Section, layouts []string, cfg Config) *Plan {
	if cfg.MaxSlideUnits <= 0 {
		cfg.MaxSlideUnits = 220
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 4
	}
	if cfg.TitleSizePt <= 0 {
		cfg.TitleSizePt = 44
	}
	if cfg.BodySizePt <= 0 {
		cfg.BodySizePt = 32
	}
	// Configured sizes obey the same floor as computed ones.
	if cfg.TitleSizePt < FontFloorPt {
		cfg.TitleSizePt = FontFloorPt
	}
	if cfg.BodySizePt < FontFloorPt {
		cfg.BodySizePt = FontFloorPt
	}

	b := &builder{
		plan:          &Plan{},
		cfg:           cfg,
		titleLayout:   pickLayout(layouts, "title", 0),
		contentLayout: pickLayout(layouts, "content", 1),
	}

	headerTitle := pattern.StripChapter(root.Text)
	b.push(KindTitle, b.titleLayout, headerTitle)

	for _, child := range root.Children {
		switch child.Level {
		case section.Chapter:
			b.chapter(child)
		case section.Subtitle:
			// Subtitle directly under the header: continuation of the
			// title slide's topic.
			b.currentTitle = headerTitle
			b.push(KindContinuation, b.contentLayout, headerTitle+" (續)")
			b.addItem(pattern.StripSubtitle(child.Text))
			b.contents(child.Children, headerTitle)
		case section.Content:
			// Preamble before the first chapter.
			b.currentTitle = headerTitle
			b.addContent(child.Text)
		}
	}

	b.finalize()
	return b.plan
}

type builder struct {
	plan          *Plan
	cfg           Config
	titleLayout   string
	contentLayout string

	current      *Slide
	currentTitle string // chapter title for continuation slides
	units        int
}

// push finalizes the current slide and starts a new one.
func (b *builder) push(kind Kind, layout, title string) {
	b.finalize()
	size, wraps := b.titleSize(title)
	b.plan.Slides = append(b.plan.Slides, Slide{
		Layout:      layout,
		Kind:        kind,
		Title:       title,
		TitleSizePt: size,
		BodySizePt:  b.cfg.BodySizePt,
		TitleWraps:  wraps,
	})
	b.current = &b.plan.Slides[len(b.plan.Slides)-1]
	b.units = 0
}

func (b *builder) finalize() {
	b.current = nil
	b.units = 0
}

func (b *builder) chapter(ch *section.Section) {
	title := pattern.StripChapter(ch.Text)
	b.currentTitle = title
	b.push(KindChapter, b.contentLayout, title)
	b.contents(ch.Children, title)
}

// contents batches a chapter's children. A subtitle always opens a new
// slide; content overflowing the thresholds opens a continuation slide
// titled after the owning chapter.
func (b *builder) contents(children []*section.Section, chapterTitle string) {
	for _, c := range children {
		switch c.Level {
		case section.Subtitle:
			b.push(KindContinuation, b.contentLayout, chapterTitle+" (續)")
			b.addItem(pattern.StripSubtitle(c.Text))
			b.contents(c.Children, chapterTitle)
		case section.Content:
			b.addContent(c.Text)
		}
	}
}

// addContent adds one content paragraph, starting a continuation slide
// when item or size thresholds would be exceeded.
func (b *builder) addContent(text string) {
	units := EstimateWidth(text)
	if b.current == nil ||
		len(b.current.Body) >= b.cfg.MaxItems ||
		(len(b.current.Body) > 0 && b.units+units > b.cfg.MaxSlideUnits) {
		title := b.currentTitle
		if b.current != nil {
			title += " (續)"
		}
		b.push(KindContinuation, b.contentLayout, title)
	}
	b.addItem(text)
}

func (b *builder) addItem(text string) {
	b.current.Body = append(b.current.Body, text)
	b.units += EstimateWidth(text)
}

// titleSize shrinks long titles toward the floor; at the floor the
// title wraps rather than shrinking further.
func (b *builder) titleSize(title string) (float64, bool) {
	const comfortableUnits = 20
	size := b.cfg.TitleSizePt
	if u := EstimateWidth(title); u > comfortableUnits {
		size = b.cfg.TitleSizePt * comfortableUnits / float64(u)
	}
	if size < FontFloorPt {
		return FontFloorPt, true
	}
	return size, false
}

// pickLayout finds a layout whose name contains want, falling back to
// the layout at idx, then the first layout, then the writer default.
func pickLayout(layouts []string, want string, idx int) string {
	for _, name := range layouts {
		if strings.Contains(strings.ToLower(name), want) {
			return name
		}
	}
	if idx < len(layouts) {
		return layouts[idx]
	}
	if len(layouts) > 0 {
		return layouts[0]
	}
	return ""
}

// EstimateWidth estimates the display width of text on a slide:
// CJK and other non-ASCII runes count two units, ASCII one.
func EstimateWidth(text string) int {
	w := 0
	for _, r := range text {
		if r > 127 {
			w += 2
		} else {
			w++
		}
	}
	return w
}
