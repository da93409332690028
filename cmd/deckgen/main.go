// Package main is the deckgen command line tool. It converts a text
// document into a PowerPoint deck using a template, without running
// the HTTP service.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "deckgen",
	Short: "Convert structured documents into PowerPoint decks",
	Long: `deckgen reads a document (txt, md, html, pdf or docx), detects its
chapter structure from numbering markers and heading styles, and writes
a PowerPoint deck based on a template's layouts.

The last-used document, template and output paths are remembered in
~/.deckgen_paths.json and offered as defaults on the next run.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
