// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration as YAML",
	Long: `Config prints the configuration extract would use, after defaults,
environment overrides, and flags are applied. Running it against a legacy
cfg.ini prints the equivalent termex.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, used, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(&cfg)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		fmt.Fprintf(os.Stdout, "# %s\n%s", used, data)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
