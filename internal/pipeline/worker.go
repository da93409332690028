package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/deckgen/deckgen/internal/analyzer"
	"github.com/deckgen/deckgen/internal/config"
	"github.com/deckgen/deckgen/internal/parser"
	"github.com/deckgen/deckgen/internal/pptx"
	"github.com/deckgen/deckgen/internal/preview"
	"github.com/deckgen/deckgen/internal/slideplan"
)

// Worker runs the conversion pipeline for one job at a time: parse,
// analyze, plan, write the deck, then render previews.
type Worker struct {
	log      *slog.Logger
	planCfg  slideplan.Config
	renderer *preview.Renderer
	previews *previewGate

	pdfFallback bool
}

func NewWorker(cfg config.Config, log *slog.Logger, previews *previewGate) *Worker {
	return &Worker{
		log: log,
		planCfg: slideplan.Config{
			MaxSlideUnits: cfg.MaxSlideUnits,
			MaxItems:      cfg.MaxSlideItems,
		},
		renderer: preview.NewRenderer(preview.Options{
			Width:    cfg.PreviewWidth,
			FontName: cfg.PreviewFont,
		}),
		previews:    previews,
		pdfFallback: cfg.PDFFallbackPdftotext,
	}
}

// Process runs the full conversion pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pp, ok := p.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = w.pdfFallback
	}

	doc, err := p.Parse(bytes.NewReader(job.fileData), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if doc.Encoding != "" {
		job.SetEncoding(doc.Encoding)
	}

	// Phase 2: Analyze structure
	job.SetStatus(StatusAnalyzing, "analyzing")
	root, err := analyzer.Analyze(doc)
	if err != nil {
		log.Error("analysis failed", "error", err)
		if errors.Is(err, analyzer.ErrNoContent) {
			job.AddError("document has no extractable content")
		} else {
			job.AddError(fmt.Sprintf("analyze: %s", err))
		}
		job.SetStatus(StatusFailed, "analyzing")
		return
	}

	// Phase 3: Plan slides against the template layouts
	job.SetStatus(StatusPlanning, "planning")
	tmpl, err := pptx.ReadTemplate(bytes.NewReader(job.templateData), int64(len(job.templateData)))
	if err != nil {
		log.Error("template unusable", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "planning")
		return
	}
	plan := slideplan.Build(root, tmpl.LayoutNames, w.planCfg)
	job.SetSlideCounts(len(plan.Slides), plan.ChapterSlides())
	log.Info("planned deck", "slides", len(plan.Slides), "chapters", plan.ChapterSlides())

	// Phase 4: Write the deck
	job.SetStatus(StatusWriting, "writing")
	deckPath := filepath.Join(job.outputDir, deckFilename(job.Filename))
	if err := pptx.SaveDeck(deckPath, tmpl, plan); err != nil {
		log.Error("deck write failed", "error", err)
		job.AddError(fmt.Sprintf("write deck: %s", err))
		job.SetStatus(StatusFailed, "writing")
		return
	}
	job.SetDeckPath(deckPath)
	log.Info("deck written", "path", deckPath)

	// Phase 5: Render previews. The deck is already on disk, so a
	// preview failure degrades the job to partial instead of failing it.
	job.SetStatus(StatusPreviewing, "previewing")
	previewCtx := w.previews.begin(ctx)
	images, err := w.renderer.RenderPlan(previewCtx, plan)
	if err != nil {
		log.Warn("preview render failed", "error", err)
		job.AddError(fmt.Sprintf("preview: %s", err))
		job.SetStatus(StatusPartial, "done")
		return
	}
	paths, err := preview.SaveImages(filepath.Join(job.outputDir, "previews"), images)
	if err != nil {
		log.Warn("preview save failed", "error", err)
		job.AddError(fmt.Sprintf("preview: %s", err))
		job.SetStatus(StatusPartial, "done")
		return
	}
	job.SetPreviewPaths(paths)
	log.Info("previews rendered", "count", len(paths))

	job.SetStatus(StatusCompleted, "done")
}

// deckFilename derives the output deck name from the input filename.
func deckFilename(input string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = "presentation"
	}
	return base + ".pptx"
}
