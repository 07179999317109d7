// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the masterdata CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/masterdata/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the masterdata CLI.
var rootCmd = &cobra.Command{
	Use:   "masterdata",
	Short: "Convert YAML master data into keyed JSON databases",
	Long: `masterdata converts game master-data tables (YAML sequences of records) into
JSON databases keyed by a record field, so the simulator can load each table as a
dictionary. Run with no arguments to convert masterdata/Musics.yaml into
database/Musics.json keyed by Id.

Subcommands: convert, verify, lookup, version.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./masterdata.yaml or ~/.config/masterdata/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("masterdata")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "masterdata"))
		}
	}

	defaults := types.DefaultConfig()
	viper.SetDefault("convert.key_field", defaults.Convert.KeyField)
	viper.SetDefault("convert.indent", defaults.Convert.Indent)
	viper.SetDefault("lookup.database_dir", defaults.Lookup.DatabaseDir)
	viper.SetDefault("lookup.index_dir", defaults.Lookup.IndexDir)

	viper.SetEnvPrefix("MASTERDATA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig overlays the config file, environment and bound flags onto the
// compiled-in defaults.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	// A configured table list replaces the default one rather than merging
	// into it element by element.
	if viper.IsSet("convert.databases") {
		cfg.Convert.Databases = nil
	}
	err := viper.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
	if err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stdout, "error:", err)
		os.Exit(1)
	}
}
