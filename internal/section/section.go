package section

// Level is the hierarchy depth assigned to a section.
type Level int

const (
	Header   Level = iota // document title, unique and first
	Chapter               // top-level section
	Subtitle              // second-level section
	Content               // leaf paragraph, never has children
)

func (l Level) String() string {
	switch l {
	case Header:
		return "header"
	case Chapter:
		return "chapter"
	case Subtitle:
		return "subtitle"
	case Content:
		return "content"
	}
	return "unknown"
}

// Paragraph is one raw paragraph of an input document, with whatever
// style hints the source format exposes. HeadingLevel is 0 when the
// format carries no heading style for the paragraph.
type Paragraph struct {
	Text         string
	Bold         bool
	FontSizePt   float64
	HeadingLevel int
}

// Document is the ordered paragraph sequence of one input file.
// It is parsed once per conversion run and discarded.
type Document struct {
	Source     string // original filename
	Encoding   string // detected input encoding, "" when not applicable
	Paragraphs []Paragraph
}

// Section is a classified unit of the document tree. Text holds the
// heading line for Header/Chapter/Subtitle sections and the paragraph
// text for Content sections. The tree is immutable once the analyzer
// returns it.
type Section struct {
	Level    Level
	Text     string
	Children []*Section
}

// AddChild appends a child section.
func (s *Section) AddChild(c *Section) {
	s.Children = append(s.Children, c)
}

// Depth returns the height of the tree rooted at s (a lone section is 1).
func (s *Section) Depth() int {
	max := 0
	for _, c := range s.Children {
		if d := c.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}

// Walk visits s and every descendant in document order.
func (s *Section) Walk(fn func(*Section)) {
	fn(s)
	for _, c := range s.Children {
		c.Walk(fn)
	}
}
