// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/termex/internal/config"
	"github.com/pdiddy/termex/internal/fetch"
	"github.com/pdiddy/termex/internal/glossary"
	"github.com/pdiddy/termex/internal/pipeline"
	"github.com/pdiddy/termex/internal/secrets"
	"github.com/pdiddy/termex/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract definitions from every configured source",
	Long: `Extract processes each configured source in order. Git sources are
cloned (or pulled) into the repos folder and walked with the source's path
patterns; web sources are downloaded and read as respec; local folders are
walked and local files read directly.

Entries are printed as "term", a line break, the description, and a blank
line, and stored in <out>/glossary.db for later search and export. A failing
source is reported and skipped. An interrupt stops the run quietly.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, cfgPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.PrepareDirs(cfg); err != nil {
		return err
	}

	sec, err := loadSecrets(cfg.HomeDir)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	noStore, _ := cmd.Flags().GetBool("no-store")

	var sinks glossary.MultiSink
	switch format {
	case "text", "":
		sinks = append(sinks, glossary.NewTextSink(os.Stdout))
	case "none":
	default:
		return fmt.Errorf("unsupported format %q: use text or none", format)
	}

	runner := &pipeline.Runner{
		Git: fetch.NewGitFetcher(cfg.ReposDir, os.Stderr, log.Logger),
		Web: fetch.NewWebFetcher(cfg.HTTP, sec.WebTokens()),
		Log: log.Logger,
		Out: os.Stderr,
	}

	if !noStore {
		store, err := glossary.NewStore(types.GlossaryConfig{OutDir: cfg.OutDir})
		if err != nil {
			return err
		}
		defer store.Close()
		sinks = append(sinks, store)
		runner.Reset = store
	}
	runner.Sink = sinks

	summary, err := runner.Run(ctx, config.SourceBase(cfgPath), cfg)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d source(s) failed", summary.Failed)
	}
	return nil
}

func init() {
	extractCmd.Flags().String("out", "", "folder for glossary.db and exports (default: current folder)")
	extractCmd.Flags().String("repos", "", "folder where git sources are cloned (default: <home>/repos)")
	extractCmd.Flags().String("format", "text", "stdout format: text or none")
	extractCmd.Flags().Bool("no-store", false, "do not write entries to the glossary database")
	extractCmd.Flags().Bool("dedupe", false, "skip markers whose span an earlier marker pattern already matched")

	viper.BindPFlag("out_dir", extractCmd.Flags().Lookup("out"))
	viper.BindPFlag("repos_dir", extractCmd.Flags().Lookup("repos"))
	viper.BindPFlag("dedupe_markers", extractCmd.Flags().Lookup("dedupe"))

	rootCmd.AddCommand(extractCmd)
}
