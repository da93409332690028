package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deckgen/deckgen/internal/analyzer"
	"github.com/deckgen/deckgen/internal/config"
	"github.com/deckgen/deckgen/internal/parser"
	"github.com/deckgen/deckgen/internal/pptx"
	"github.com/deckgen/deckgen/internal/preview"
	"github.com/deckgen/deckgen/internal/slideplan"
)

var convertCmd = &cobra.Command{
	Use:   "convert [document]",
	Short: "Convert a document into a PowerPoint deck",
	Long: `Convert parses the document, builds the section tree from its chapter
and subtitle markers, and writes one deck based on the template. With
--previews, PNG thumbnails are rendered next to the deck.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("template", "", "PPTX template file (default: last used)")
	convertCmd.Flags().StringP("output", "o", "", "output deck path (default: document name with .pptx)")
	convertCmd.Flags().String("font", "", "preview font name (default: last used)")
	convertCmd.Flags().Int("max-items", 4, "max body items per slide")
	convertCmd.Flags().Int("max-units", 220, "max estimated text units per slide")
	convertCmd.Flags().Bool("previews", false, "render PNG thumbnails next to the deck")
	convertCmd.Flags().Bool("verbose", false, "log progress to stderr")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	paths := config.LoadPaths()

	docPath := paths.LastDocument
	if len(args) > 0 {
		docPath = args[0]
	}
	if docPath == "" {
		return fmt.Errorf("no document given and no remembered document")
	}

	tmplPath, _ := cmd.Flags().GetString("template")
	if tmplPath == "" {
		tmplPath = paths.LastTemplate
	}
	if tmplPath == "" {
		return fmt.Errorf("no template given and no remembered template (--template)")
	}

	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		base := strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath))
		outPath = base + ".pptx"
	}

	fontName, _ := cmd.Flags().GetString("font")
	if fontName == "" {
		fontName = paths.FontName
	}

	maxItems, _ := cmd.Flags().GetInt("max-items")
	maxUnits, _ := cmd.Flags().GetInt("max-units")
	withPreviews, _ := cmd.Flags().GetBool("previews")
	verbose, _ := cmd.Flags().GetBool("verbose")

	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	data, err := os.ReadFile(docPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file not found: %s", docPath)
		}
		return fmt.Errorf("read document: %w", err)
	}

	p, err := parser.ForFile(docPath)
	if err != nil {
		return err
	}
	doc, err := p.Parse(bytes.NewReader(data), docPath)
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	if doc.Encoding != "" {
		log.Info("decoded document", "encoding", doc.Encoding)
	}

	root, err := analyzer.Analyze(doc)
	if err != nil {
		return fmt.Errorf("analyze document: %w", err)
	}

	tmpl, err := pptx.OpenTemplate(tmplPath)
	if err != nil {
		return err
	}
	log.Info("opened template", "layouts", len(tmpl.LayoutNames))

	plan := slideplan.Build(root, tmpl.LayoutNames, slideplan.Config{
		MaxItems:      maxItems,
		MaxSlideUnits: maxUnits,
	})
	log.Info("planned deck", "slides", len(plan.Slides), "chapters", plan.ChapterSlides())

	if err := pptx.SaveDeck(outPath, tmpl, plan); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d slides)\n", outPath, len(plan.Slides))

	if withPreviews {
		opts := preview.DefaultOptions()
		opts.SlideWidthEMU = tmpl.SlideWidthEMU
		opts.SlideHeightEMU = tmpl.SlideHeightEMU
		if fontName != "" {
			opts.FontName = fontName
		}
		r := preview.NewRenderer(opts)
		images, err := r.RenderPlan(context.Background(), plan)
		if err != nil {
			log.Warn("preview render failed", "error", err)
		} else {
			dir := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + "_previews"
			saved, err := preview.SaveImages(dir, images)
			if err != nil {
				log.Warn("preview save failed", "error", err)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d previews to %s\n", len(saved), dir)
			}
		}
	}

	// Remember the inputs for next time. A failed save is not fatal.
	paths.LastDocument = docPath
	paths.LastTemplate = tmplPath
	paths.LastOutput = outPath
	if fontName != "" {
		paths.FontName = fontName
	}
	if err := config.SavePaths(paths); err != nil {
		log.Warn("could not remember paths", "error", err)
	}

	return nil
}
