// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ecn-parties/internal/fetch"
	"github.com/pdiddy/ecn-parties/pkg/types"
)

const (
	defaultTimeout   = 120 * time.Second
	defaultUserAgent = "ecn-parties/0.1"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the registration PDF",
	Long: `Fetch downloads the registered-party PDF to <data-dir>/raw/. An existing
file is kept; delete it to download again. Rate limiting and gateway errors
are retried with exponential backoff.`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("url", "", "URL of the registration PDF")
	fetchCmd.Flags().String("data-dir", "data", "base directory for data (contains raw/)")
	fetchCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	fetchCmd.Flags().String("user-agent", defaultUserAgent, "User-Agent header")
	fetchCmd.Flags().Int("max-retries", 0, "retries on 429 and 5xx responses (0 = default)")
	fetchCmd.Flags().String("output", "", "download path (default <data-dir>/raw/"+fetch.DefaultFileName+")")
	bindFlags(fetchCmd, "fetch", "url", "data-dir", "timeout", "user-agent", "max-retries")

	rootCmd.AddCommand(fetchCmd)
}

func fetchConfig() types.FetchConfig {
	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:    viper.GetDuration("fetch.timeout"),
			UserAgent:  viper.GetString("fetch.user_agent"),
			MaxRetries: viper.GetInt("fetch.max_retries"),
		},
		URL:     viper.GetString("fetch.url"),
		DataDir: viper.GetString("fetch.data_dir"),
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	return cfg
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := fetchConfig()
	if cfg.URL == "" {
		return fmt.Errorf("no PDF URL: set --url, fetch.url in the config file, or ECN_PARTIES_FETCH_URL")
	}

	dest, _ := cmd.Flags().GetString("output")
	if dest == "" {
		dest = fetch.Dest(cfg)
	}

	_, err := fetch.Download(context.Background(), fetch.NewClient(cfg), cfg.URL, dest, cfg, os.Stdout, logger.Named("fetch"))
	return err
}
