// Package preview renders a slide plan into thumbnail images so the
// caller can inspect a conversion without opening the deck. Rendering
// failures never abort a conversion; the deck is already on disk when
// previews are produced.
package preview

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/deckgen/deckgen/internal/slideplan"
)

// RenderError reports a preview failure for one slide.
type RenderError struct {
	Slide int
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render preview for slide %d: %v", e.Slide, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Options configures thumbnail rendering.
type Options struct {
	// Width is the thumbnail width in pixels. Height follows the slide
	// aspect ratio.
	Width int

	// SlideWidthEMU and SlideHeightEMU give the deck geometry. Zero
	// values fall back to 16:9.
	SlideWidthEMU  int64
	SlideHeightEMU int64

	// FontName selects the face used for all text.
	FontName string

	// FontDirs adds directories to the font search path.
	FontDirs []string
}

// DefaultOptions returns the standard thumbnail settings.
func DefaultOptions() Options {
	return Options{
		Width:    960,
		FontName: "Microsoft JhengHei",
	}
}

// Renderer renders plans to images, sharing one font cache across
// renders.
type Renderer struct {
	opts  Options
	cache *FontCache
}

// NewRenderer creates a renderer. Zero-value options fall back to
// DefaultOptions.
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.FontName == "" {
		opts.FontName = def.FontName
	}
	if opts.SlideWidthEMU <= 0 || opts.SlideHeightEMU <= 0 {
		opts.SlideWidthEMU, opts.SlideHeightEMU = 12192000, 6858000
	}
	return &Renderer{opts: opts, cache: NewFontCache(opts.FontDirs...)}
}

// RenderPlan renders every slide in the plan. The context is checked
// between slides so a superseded render can be abandoned early.
func (r *Renderer) RenderPlan(ctx context.Context, plan *slideplan.Plan) ([]image.Image, error) {
	images := make([]image.Image, 0, len(plan.Slides))
	for i := range plan.Slides {
		if err := ctx.Err(); err != nil {
			return nil, &RenderError{Slide: i + 1, Err: err}
		}
		img, err := r.renderSlide(&plan.Slides[i])
		if err != nil {
			return nil, &RenderError{Slide: i + 1, Err: err}
		}
		images = append(images, img)
	}
	return images, nil
}

// SaveImages writes thumbnails as slide_NNN.png under dir.
func SaveImages(dir string, images []image.Image) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create preview dir: %w", err)
	}
	paths := make([]string, 0, len(images))
	for i, img := range images {
		path := filepath.Join(dir, fmt.Sprintf("slide_%03d.png", i+1))
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create preview file: %w", err)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return nil, fmt.Errorf("encode preview %d: %w", i+1, err)
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

var (
	slideBG    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	titleColor = color.RGBA{R: 31, G: 56, B: 100, A: 255}
	bodyColor  = color.RGBA{R: 38, G: 38, B: 38, A: 255}
	ruleColor  = color.RGBA{R: 191, G: 191, B: 191, A: 255}
)

func (r *Renderer) renderSlide(s *slideplan.Slide) (image.Image, error) {
	w := r.opts.Width
	h := int(float64(w) * float64(r.opts.SlideHeightEMU) / float64(r.opts.SlideWidthEMU))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{slideBG}, image.Point{}, draw.Src)

	// Font sizes scale with the thumbnail; plan sizes are full-deck points.
	scale := float64(w) / 960.0
	margin := int(48 * scale)

	titleFace := r.face(s.TitleSizePt*scale*0.55, true)
	bodyFace := r.face(s.BodySizePt*scale*0.55, false)

	y := margin + faceAscent(titleFace)
	y = r.drawWrapped(img, titleFace, titleColor, s.Title, margin, y, w-2*margin)

	// Separator under the title block.
	ruleY := y + int(8*scale)
	for x := margin; x < w-margin; x++ {
		img.Set(x, ruleY, ruleColor)
	}

	y = ruleY + int(16*scale) + faceAscent(bodyFace)
	for _, item := range s.Body {
		if y > h-margin {
			break
		}
		y = r.drawWrapped(img, bodyFace, bodyColor, "• "+item, margin, y, w-2*margin)
		y += faceLineHeight(bodyFace) / 2
	}

	return img, nil
}

func (r *Renderer) face(sizePt float64, bold bool) font.Face {
	if f := r.cache.Face(r.opts.FontName, sizePt, bold); f != nil {
		return f
	}
	// No usable system font. The thumbnail is still produced, just with
	// the builtin bitmap face.
	return basicfont.Face7x13
}

// drawWrapped draws text with greedy rune wrapping and returns the
// baseline for the line after the last one drawn.
func (r *Renderer) drawWrapped(img *image.RGBA, face font.Face, col color.RGBA, text string, x, y, maxWidth int) int {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
	}
	limit := fixed.I(maxWidth)

	line := ""
	for _, ch := range text {
		candidate := line + string(ch)
		if line != "" && d.MeasureString(candidate) > limit {
			d.Dot = fixed.P(x, y)
			d.DrawString(line)
			y += faceLineHeight(face)
			line = string(ch)
			continue
		}
		line = candidate
	}
	if line != "" {
		d.Dot = fixed.P(x, y)
		d.DrawString(line)
		y += faceLineHeight(face)
	}
	return y
}

func faceAscent(face font.Face) int {
	return face.Metrics().Ascent.Ceil()
}

func faceLineHeight(face font.Face) int {
	return face.Metrics().Height.Ceil()
}
