// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the termex CLI.
package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/termex/internal/config"
	"github.com/pdiddy/termex/internal/secrets"
	"github.com/pdiddy/termex/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// secretsDir is the folder under the home folder holding one secret per file.
const secretsDir = ".secrets"

// rootCmd is the base command for the termex CLI.
var rootCmd = &cobra.Command{
	Use:   "termex",
	Short: "Extract term definitions from canonical documentation sources",
	Long: `termex harvests glossary entries from documentation. It finds places
where a document defines a term (__term__ in Markdown, <dfn>term</dfn> in
respec-style HTML), recovers the surrounding paragraph or block, and writes
one entry per definition.

Sources are git repositories, web pages, or local files and folders, listed
in termex.yaml (or a legacy cfg.ini) in the working directory or the home
folder.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		if debug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./termex.yaml, <home>/termex.yaml, or <home>/cfg.ini)")
	rootCmd.PersistentFlags().String("home", "", "termex home folder (default ~/.termex)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
}

// homeDir returns the --home value or the default home folder.
func homeDir(cmd *cobra.Command) string {
	home, _ := cmd.Flags().GetString("home")
	if home == "" {
		return config.DefaultHome()
	}
	return home
}

// loadConfig resolves the configuration for cmd and returns it with the
// config file path.
func loadConfig(cmd *cobra.Command) (types.ExtractionConfig, string, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, used, err := config.Load(viper.GetViper(), cfgFile, homeDir(cmd))
	if err != nil {
		return cfg, "", err
	}
	log.Debug().Str("config", used).Int("sources", len(cfg.Sources)).Msg("using config file")
	return cfg, used, nil
}

// loadSecrets reads credentials from the home folder.
func loadSecrets(home string) (secrets.Secrets, error) {
	s, err := secrets.Load(filepath.Join(home, secretsDir))
	if err != nil {
		return nil, err
	}
	if len(s) > 0 {
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		log.Debug().Strs("keys", keys).Msg("loaded secrets")
	}
	return s, nil
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
