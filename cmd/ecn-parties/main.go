// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ecn-parties CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from log.level before any command runs.
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "ecn-parties",
	Short: "Extract political party registrations from the Election Commission PDF",
	Long: `ecn-parties turns the Election Commission of Nepal's registered-party PDF
into JSON records for the party database.

The pipeline is a set of subcommands: fetch downloads the PDF, extract reads
its tables into records and writes a completion guide, normalize fills the
fields that can be derived from the extracted text, guide rebuilds the
completion guide, and store merges record files into a searchable SQLite
index with CSV, JSON, and YAML exports.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetString("log.level"))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ecn-parties.yaml or ~/.config/ecn-parties/ecn-parties.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "diagnostic log level: debug, info, warn, error")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ecn-parties")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ecn-parties"))
		}
	}

	// ECN_PARTIES_STORE_DATA_DIR overrides store.data_dir.
	viper.SetEnvPrefix("ECN_PARTIES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds a console logger on stderr at the given level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// bindFlags binds each named flag of cmd to the viper key prefix.name, with
// dashes in flag names turned into underscores.
func bindFlags(cmd *cobra.Command, prefix string, names ...string) {
	for _, name := range names {
		key := prefix + "." + strings.ReplaceAll(name, "-", "_")
		viper.BindPFlag(key, cmd.Flags().Lookup(name))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
