package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deckgen/deckgen/internal/pptx"
)

var layoutsCmd = &cobra.Command{
	Use:   "layouts [template]",
	Short: "List the slide layouts of a PPTX template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpl, err := pptx.OpenTemplate(args[0])
		if err != nil {
			return err
		}
		for i, name := range tmpl.LayoutNames {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", i+1, name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(layoutsCmd)
}
