// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the harvest CLI: it triggers managed
// scraper jobs at the vendor collector API, polls for their results, and
// saves the final payload locally.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/harvest/internal/collector"
	"github.com/pdiddy/harvest/internal/history"
	"github.com/pdiddy/harvest/internal/secrets"
	"github.com/pdiddy/harvest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API tokens loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// collectorTokenKey is the secrets-file name for the collector API token.
const collectorTokenKey = "collector-api-token"

// resolveToken returns the collector API token. An explicit flag value
// wins, then the HARVEST_COLLECTOR_TOKEN environment variable, then the
// .secrets/collector-api-token file. The token is never embedded in source.
func resolveToken(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := viper.GetString("collector_token"); v != "" {
		return v
	}
	return loadedSecrets[collectorTokenKey]
}

// rootCmd is the base command for the harvest CLI.
var rootCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Trigger and collect managed-scraper jobs",
	Long: `harvest drives a vendor-managed scraping job end to end: trigger submits a
keyword search and records the returned job identifier, poll waits for the
job to finish and saves the JSON payload, and run does both in one process.

The job identifier is handed off through a local file (current_job.txt), so
trigger and poll also work as independent steps.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./harvest.yaml or ~/.config/harvest/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("harvest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "harvest"))
		}
	}

	viper.SetEnvPrefix("HARVEST")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// collectorClient builds a collector client from the command's shared flags.
// It fails when no API token can be resolved.
func collectorClient(cmd *cobra.Command) (*collector.Client, error) {
	token, _ := cmd.Flags().GetString("token")
	token = resolveToken(token)
	if token == "" {
		return nil, fmt.Errorf("no API token: pass --token, set HARVEST_COLLECTOR_TOKEN, or create .secrets/%s", collectorTokenKey)
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}
	collectorID, _ := cmd.Flags().GetString("collector")

	cfg := types.CollectorConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		CollectorID: collectorID,
		Token:       token,
	}
	return collector.NewClient(cfg), nil
}

// recordTrigger writes the job to the history store. History is an audit
// artifact: failures are warnings, never fatal.
func recordTrigger(dbPath, jobID, keyword string) {
	st, err := history.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: job history unavailable: %v\n", err)
		return
	}
	defer st.Close()
	if err := st.RecordTrigger(jobID, keyword, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}

// recordOutcome marks the job complete or timed out in the history store.
func recordOutcome(dbPath, jobID string, attempts, itemCount int, timedOut bool) {
	st, err := history.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: job history unavailable: %v\n", err)
		return
	}
	defer st.Close()
	if timedOut {
		err = st.MarkTimeout(jobID, attempts, time.Now())
	} else {
		err = st.MarkComplete(jobID, attempts, itemCount, time.Now())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
