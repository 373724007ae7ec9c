// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/termex/internal/extract"
	"github.com/pdiddy/termex/internal/glossary"
	"github.com/pdiddy/termex/internal/source"
	"github.com/pdiddy/termex/pkg/types"
)

var fileCmd = &cobra.Command{
	Use:   "file <path>...",
	Short: "Extract definitions from local files without a config",
	Long: `File extracts definitions from the given files and prints them to
stdout. The dialect is inferred from the name (.md is markdown, anything else
is respec) unless --dialect is set. --marker replaces the default marker
pattern and may be repeated.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFile,
}

func runFile(cmd *cobra.Command, args []string) error {
	dialectName, _ := cmd.Flags().GetString("dialect")
	markers, _ := cmd.Flags().GetStringArray("marker")
	dedupe, _ := cmd.Flags().GetBool("dedupe")

	var override types.Dialect
	if dialectName != "" {
		d, err := types.ParseDialect(dialectName)
		if err != nil {
			return err
		}
		override = d
	}

	opts := extract.Options{DedupeMarkers: dedupe, Logger: log.Logger}
	if len(markers) > 0 {
		opts.Markers = map[types.Dialect][]string{
			types.DialectMarkdown: markers,
			types.DialectRespec:   markers,
		}
	}
	x, err := extract.New(opts)
	if err != nil {
		return err
	}

	ctx := context.Background()
	sink := glossary.NewTextSink(os.Stdout)
	for _, path := range args {
		doc, err := source.ReadFile(path)
		if err != nil {
			return err
		}
		if override != "" {
			doc.Dialect = override
		}
		if _, err := x.ExtractDocument(ctx, doc, "", sink); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	fileCmd.Flags().String("dialect", "", "document dialect: markdown or respec (default: from file name)")
	fileCmd.Flags().StringArray("marker", nil, "marker pattern replacing the default (repeatable)")
	fileCmd.Flags().Bool("dedupe", false, "skip markers whose span an earlier marker pattern already matched")

	rootCmd.AddCommand(fileCmd)
}
