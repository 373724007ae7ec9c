// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/termex/internal/config"
	"github.com/pdiddy/termex/internal/glossary"
	"github.com/pdiddy/termex/pkg/types"
)

var glossaryCmd = &cobra.Command{
	Use:   "glossary",
	Short: "Search and export the glossary database",
	Long: `Glossary queries <out>/glossary.db, which extract fills. Use search to
find entries by full-text query or filters, and export to write the glossary
(or a filtered subset) as YAML or JSON.`,
}

// --- search subcommand ---

var glossarySearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search glossary entries by full-text query and filters",
	RunE:  runGlossarySearch,
}

func runGlossarySearch(cmd *cobra.Command, args []string) error {
	store, err := openGlossary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --term, --source, or --dialect")
	}

	results, err := store.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []glossary.Result, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-24s  %-50s  %-16s  %s\n",
		"Rank", "Term", "Description", "Source", "Document")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 120))

	for i, r := range results {
		fmt.Fprintf(os.Stdout, "%-4d  %-24s  %-50s  %-16s  %s\n",
			i+1, truncate(r.Term, 24), truncate(r.Description, 50), truncate(r.Source, 16), r.DocumentID)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- export subcommand ---

var glossaryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the glossary to YAML or JSON",
	Long: `Export writes the full glossary (or a filtered subset) to
<out>/glossary.yaml or <out>/glossary.json. Supports the same filter flags as
search.`,
	RunE: runGlossaryExport,
}

func runGlossaryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openGlossary(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(context.Background(), opts)
	case "json":
		path, err = store.ExportJSON(context.Background(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

// openGlossary opens the store in --out, else the configured out_dir, else
// the current folder when no config exists.
func openGlossary(cmd *cobra.Command) (*glossary.Store, error) {
	outDir, _ := cmd.Flags().GetString("out")
	if outDir == "" {
		cfg, _, err := loadConfig(cmd)
		switch {
		case err == nil:
			outDir = cfg.OutDir
		case errors.Is(err, config.ErrNoConfig):
			outDir = "."
		default:
			return nil, err
		}
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return glossary.NewStore(types.GlossaryConfig{OutDir: outDir, MaxResults: maxResults})
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) (glossary.QueryOptions, error) {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	term, _ := cmd.Flags().GetString("term")
	src, _ := cmd.Flags().GetString("source")
	dialectName, _ := cmd.Flags().GetString("dialect")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := glossary.QueryOptions{
		Query:      queryText,
		Term:       term,
		Source:     src,
		MaxResults: limit,
	}
	if dialectName != "" {
		d, err := types.ParseDialect(dialectName)
		if err != nil {
			return opts, err
		}
		opts.Dialect = d
	}
	return opts, nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	glossaryCmd.PersistentFlags().String("out", "", "folder holding glossary.db (default: configured out_dir)")
	glossaryCmd.PersistentFlags().Int("max-results", 20, "maximum number of search results")
	glossaryCmd.PersistentFlags().String("query", "", "full-text search query")
	glossaryCmd.PersistentFlags().String("term", "", "filter by exact term (case-insensitive)")
	glossaryCmd.PersistentFlags().String("source", "", "filter by configured source name")
	glossaryCmd.PersistentFlags().String("dialect", "", "filter by dialect: markdown or respec")
	glossaryCmd.PersistentFlags().Int("limit", 0, "maximum results (0 = use default)")

	// Search flags.
	glossarySearchCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	glossaryExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	// Wire subcommands.
	glossaryCmd.AddCommand(glossarySearchCmd)
	glossaryCmd.AddCommand(glossaryExportCmd)

	rootCmd.AddCommand(glossaryCmd)
}
