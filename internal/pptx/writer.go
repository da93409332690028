package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/deckgen/deckgen/internal/slideplan"
)

const (
	relTypeSlide  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	ctSlide       = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	relTypeLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"

	nsRels = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCT   = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// SaveDeck writes the deck to path atomically. The deck is built in a
// temp file in the target directory and renamed into place, so a
// failure mid-write never leaves a partial output file.
func SaveDeck(path string, tmpl *Template, plan *slideplan.Plan) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".deckgen-*.pptx")
	if err != nil {
		return fmt.Errorf("create temp deck: %w", err)
	}
	tmpPath := tmp.Name()

	if err := WriteDeck(tmp, tmpl, plan); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp deck: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename deck into place: %w", err)
	}
	return nil
}

// WriteDeck streams a complete PPTX container to w: the template's
// parts plus one generated slide per plan entry.
func WriteDeck(w io.Writer, tmpl *Template, plan *slideplan.Plan) error {
	zw := zip.NewWriter(w)

	if err := writePart(zw, "[Content_Types].xml", buildContentTypes(tmpl, len(plan.Slides))); err != nil {
		return err
	}

	// Carried-through template parts, in stable order.
	var names []string
	for name := range tmpl.parts {
		switch name {
		case "[Content_Types].xml", "ppt/presentation.xml", "ppt/_rels/presentation.xml.rels":
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writePart(zw, name, tmpl.parts[name]); err != nil {
			return err
		}
	}

	presXML, presRels, err := buildPresentation(tmpl, len(plan.Slides))
	if err != nil {
		return err
	}
	if err := writePart(zw, "ppt/presentation.xml", presXML); err != nil {
		return err
	}
	if err := writePart(zw, "ppt/_rels/presentation.xml.rels", presRels); err != nil {
		return err
	}

	for i, slide := range plan.Slides {
		n := i + 1
		if err := writePart(zw, fmt.Sprintf("ppt/slides/slide%d.xml", n), buildSlideXML(&slide)); err != nil {
			return err
		}
		rels := buildSlideRels(tmpl.layoutPath(slide.Layout))
		if err := writePart(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), rels); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish deck container: %w", err)
	}
	return nil
}

func writePart(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create part %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write part %s: %w", name, err)
	}
	return nil
}

type xmlContentTypes struct {
	XMLName  xml.Name `xml:"Types"`
	Defaults []struct {
		Extension   string `xml:"Extension,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Default"`
	Overrides []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

// buildContentTypes rewrites [Content_Types].xml: template overrides
// for old slides are dropped, overrides for the new slides added.
func buildContentTypes(tmpl *Template, slides int) []byte {
	var ct xmlContentTypes
	xml.Unmarshal(tmpl.parts["[Content_Types].xml"], &ct)

	var sb strings.Builder
	sb.WriteString(xml.Header)
	fmt.Fprintf(&sb, `<Types xmlns=%q>`, nsCT)
	for _, d := range ct.Defaults {
		fmt.Fprintf(&sb, `<Default Extension=%q ContentType=%q/>`, d.Extension, d.ContentType)
	}
	for _, o := range ct.Overrides {
		if strings.HasPrefix(o.PartName, "/ppt/slides/") {
			continue
		}
		fmt.Fprintf(&sb, `<Override PartName=%q ContentType=%q/>`, o.PartName, o.ContentType)
	}
	for i := 1; i <= slides; i++ {
		fmt.Fprintf(&sb, `<Override PartName="/ppt/slides/slide%d.xml" ContentType=%q/>`, i, ctSlide)
	}
	sb.WriteString(`</Types>`)
	return []byte(sb.String())
}

type xmlRelationships struct {
	XMLName xml.Name `xml:"Relationships"`
	Rels    []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

var (
	sldIdLstRe     = regexp.MustCompile(`(?s)<p:sldIdLst\s*/>|<p:sldIdLst>.*?</p:sldIdLst>`)
	masterLstEndRe = regexp.MustCompile(`</p:sldMasterIdLst>`)
	sldSzOpenRe    = regexp.MustCompile(`<p:sldSz\b`)
)

// buildPresentation rewrites presentation.xml's slide id list and the
// presentation rels to reference the generated slides. Everything else
// in both parts is preserved.
func buildPresentation(tmpl *Template, slides int) ([]byte, []byte, error) {
	var rels xmlRelationships
	if err := xml.Unmarshal(tmpl.parts["ppt/_rels/presentation.xml.rels"], &rels); err != nil {
		return nil, nil, &TemplateError{Err: fmt.Errorf("parse presentation rels: %w", err)}
	}

	maxID := 0
	var kept []struct{ ID, Type, Target string }
	for _, r := range rels.Rels {
		if r.Type == relTypeSlide {
			continue
		}
		kept = append(kept, struct{ ID, Type, Target string }{r.ID, r.Type, r.Target})
		var n int
		if _, err := fmt.Sscanf(r.ID, "rId%d", &n); err == nil && n > maxID {
			maxID = n
		}
	}

	var rb strings.Builder
	rb.WriteString(xml.Header)
	fmt.Fprintf(&rb, `<Relationships xmlns=%q>`, nsRels)
	for _, r := range kept {
		fmt.Fprintf(&rb, `<Relationship Id=%q Type=%q Target=%q/>`, r.ID, r.Type, r.Target)
	}
	var lst strings.Builder
	lst.WriteString(`<p:sldIdLst>`)
	for i := 1; i <= slides; i++ {
		rid := fmt.Sprintf("rId%d", maxID+i)
		fmt.Fprintf(&rb, `<Relationship Id=%q Type=%q Target="slides/slide%d.xml"/>`, rid, relTypeSlide, i)
		// sldId ids start at 256 per the package convention.
		fmt.Fprintf(&lst, `<p:sldId id="%d" r:id=%q/>`, 255+i, rid)
	}
	lst.WriteString(`</p:sldIdLst>`)
	rb.WriteString(`</Relationships>`)

	pres := string(tmpl.parts["ppt/presentation.xml"])
	switch {
	case sldIdLstRe.MatchString(pres):
		pres = sldIdLstRe.ReplaceAllString(pres, lst.String())
	case masterLstEndRe.MatchString(pres):
		pres = masterLstEndRe.ReplaceAllString(pres, `</p:sldMasterIdLst>`+lst.String())
	case sldSzOpenRe.MatchString(pres):
		loc := sldSzOpenRe.FindStringIndex(pres)
		pres = pres[:loc[0]] + lst.String() + pres[loc[0]:]
	default:
		return nil, nil, &TemplateError{Err: fmt.Errorf("presentation.xml has no insertion point for slides")}
	}
	return []byte(pres), []byte(rb.String()), nil
}

func buildSlideRels(layoutPath string) []byte {
	target := "../" + strings.TrimPrefix(layoutPath, "ppt/")
	var sb strings.Builder
	sb.WriteString(xml.Header)
	fmt.Fprintf(&sb, `<Relationships xmlns=%q>`, nsRels)
	fmt.Fprintf(&sb, `<Relationship Id="rId1" Type=%q Target=%q/>`, relTypeLayout, target)
	sb.WriteString(`</Relationships>`)
	return []byte(sb.String())
}

// buildSlideXML emits one slide part. Placeholder shapes carry no
// geometry so they inherit position and style from the layout.
func buildSlideXML(s *slideplan.Slide) []byte {
	titlePh := `type="title"`
	if s.Kind == slideplan.KindTitle {
		titlePh = `type="ctrTitle"`
	}
	wrap := ""
	if s.TitleWraps {
		wrap = ` wrap="square"`
	}

	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	sb.WriteString(`<p:cSld><p:spTree>`)
	sb.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)

	fmt.Fprintf(&sb, `<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph %s/></p:nvPr></p:nvSpPr><p:spPr/>`, titlePh)
	fmt.Fprintf(&sb, `<p:txBody><a:bodyPr%s/><a:lstStyle/><a:p><a:r><a:rPr lang="zh-TW" sz="%d" dirty="0"/><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`,
		wrap, hundredths(s.TitleSizePt), escapeXML(s.Title))

	if len(s.Body) > 0 {
		sb.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Content 2"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:spPr/>`)
		sb.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
		for _, item := range s.Body {
			fmt.Fprintf(&sb, `<a:p><a:r><a:rPr lang="zh-TW" sz="%d" dirty="0"/><a:t>%s</a:t></a:r></a:p>`,
				hundredths(s.BodySizePt), escapeXML(item))
		}
		sb.WriteString(`</p:txBody></p:sp>`)
	}

	sb.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return []byte(sb.String())
}

// hundredths converts points to the OOXML font size unit.
func hundredths(pt float64) int {
	return int(pt*100 + 0.5)
}

func escapeXML(s string) string {
	var buf strings.Builder
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
