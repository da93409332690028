// Package pptx reads PowerPoint template containers and writes
// presentation decks built from a slide plan. Only the parts the
// conversion needs are modeled; everything else in the template is
// carried through byte-for-byte so masters, themes and media survive.
package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
)

// TemplateError reports an unusable template container. It is a
// terminal failure for the conversion run.
type TemplateError struct {
	Path string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("incompatible template %s: %v", e.Path, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// Zip-bomb guards.
const (
	maxZipEntrySize = 50 << 20  // 50 MB per part
	maxZipTotalSize = 200 << 20 // 200 MB container
	maxZipEntries   = 10000
)

// Template is an opened PPTX template: its parts, layout inventory and
// slide geometry. Existing slides are dropped; layouts and masters are
// preserved.
type Template struct {
	// parts holds every template part except slides and slide rels.
	parts map[string][]byte

	// LayoutNames lists slide layout display names in part order.
	LayoutNames []string

	// layoutPaths maps a layout name to its part path.
	layoutPaths map[string]string

	// layoutOrder keeps part paths ordered for deterministic fallback.
	layoutOrder []string

	SlideWidthEMU  int64
	SlideHeightEMU int64
}

// OpenTemplate opens a template file from disk.
func OpenTemplate(path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &TemplateError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &TemplateError{Path: path, Err: err}
	}
	t, err := ReadTemplate(f, info.Size())
	if err != nil {
		if te, ok := err.(*TemplateError); ok {
			te.Path = path
			return nil, te
		}
		return nil, &TemplateError{Path: path, Err: err}
	}
	return t, nil
}

// ReadTemplate reads a template from an io.ReaderAt.
func ReadTemplate(r io.ReaderAt, size int64) (*Template, error) {
	if size <= 0 || size > maxZipTotalSize {
		return nil, &TemplateError{Err: fmt.Errorf("invalid container size %d", size)}
	}
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &TemplateError{Err: fmt.Errorf("open zip: %w", err)}
	}
	if len(zr.File) > maxZipEntries {
		return nil, &TemplateError{Err: fmt.Errorf("too many zip entries (%d)", len(zr.File))}
	}

	t := &Template{
		parts:       make(map[string][]byte, len(zr.File)),
		layoutPaths: make(map[string]string),
	}

	for _, f := range zr.File {
		// Existing slides are discarded; the plan supplies new ones.
		if strings.HasPrefix(f.Name, "ppt/slides/") {
			continue
		}
		if f.UncompressedSize64 > maxZipEntrySize {
			return nil, &TemplateError{Err: fmt.Errorf("part %s too large", f.Name)}
		}
		rc, err := f.Open()
		if err != nil {
			return nil, &TemplateError{Err: fmt.Errorf("open part %s: %w", f.Name, err)}
		}
		data, err := io.ReadAll(io.LimitReader(rc, maxZipEntrySize+1))
		rc.Close()
		if err != nil {
			return nil, &TemplateError{Err: fmt.Errorf("read part %s: %w", f.Name, err)}
		}
		t.parts[f.Name] = data
	}

	pres, ok := t.parts["ppt/presentation.xml"]
	if !ok {
		return nil, &TemplateError{Err: fmt.Errorf("missing ppt/presentation.xml")}
	}
	t.SlideWidthEMU, t.SlideHeightEMU = parseSlideSize(pres)

	if err := t.readLayouts(); err != nil {
		return nil, err
	}
	return t, nil
}

var layoutPartRe = regexp.MustCompile(`^ppt/slideLayouts/slideLayout(\d+)\.xml$`)

type xmlLayout struct {
	XMLName xml.Name `xml:"sldLayout"`
	CSld    struct {
		Name string `xml:"name,attr"`
	} `xml:"cSld"`
}

func (t *Template) readLayouts() error {
	var paths []string
	for name := range t.parts {
		if layoutPartRe.MatchString(name) {
			paths = append(paths, name)
		}
	}
	if len(paths) == 0 {
		return &TemplateError{Err: fmt.Errorf("template has no slide layouts")}
	}
	sort.Slice(paths, func(i, j int) bool {
		return layoutIndex(paths[i]) < layoutIndex(paths[j])
	})

	for _, p := range paths {
		var l xmlLayout
		name := ""
		if err := xml.Unmarshal(t.parts[p], &l); err == nil {
			name = l.CSld.Name
		}
		if name == "" {
			name = fmt.Sprintf("Layout %d", layoutIndex(p))
		}
		t.LayoutNames = append(t.LayoutNames, name)
		t.layoutPaths[name] = p
		t.layoutOrder = append(t.layoutOrder, p)
	}
	return nil
}

func layoutIndex(path string) int {
	m := layoutPartRe.FindStringSubmatch(path)
	if len(m) != 2 {
		return 0
	}
	n := 0
	fmt.Sscanf(m[1], "%d", &n)
	return n
}

// layoutPath resolves a layout name to its part path. A missing or
// unknown name falls back to the first layout; this is the recovery
// path for plans referencing layouts the template does not have.
func (t *Template) layoutPath(name string) string {
	if p, ok := t.layoutPaths[name]; ok {
		return p
	}
	return t.layoutOrder[0]
}

var sldSzRe = regexp.MustCompile(`<p:sldSz[^>]*\bcx="(\d+)"[^>]*\bcy="(\d+)"`)

func parseSlideSize(pres []byte) (int64, int64) {
	// 16:9 default (12192000 x 6858000 EMU) when the template omits sldSz.
	cx, cy := int64(12192000), int64(6858000)
	m := sldSzRe.FindSubmatch(pres)
	if len(m) == 3 {
		fmt.Sscanf(string(m[1]), "%d", &cx)
		fmt.Sscanf(string(m[2]), "%d", &cy)
	}
	return cx, cy
}
