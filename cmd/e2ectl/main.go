package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/staffhub/employee-e2e/internal/version"
	"github.com/staffhub/employee-e2e/tests/e2e/config"
)

var rootCmd = &cobra.Command{
	Use:   "e2ectl",
	Short: "Employee management E2E suite tooling",
	Long: `e2ectl prepares and inspects the browser end-to-end suite of the
employee management application.

It installs Playwright browsers, prints the resolved configuration,
generates upload fixtures, manages visual baselines and probes the
application under test.`,
	Version:       version.Full(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configPathFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to e2e.yaml (default: ./e2e.yaml or tests/e2e/e2e.yaml)")
}

// loadConfig resolves configuration the same way the suite does.
func loadConfig() (*config.TestConfig, error) {
	cfg, err := config.Load(configPathFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
