package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/playwright-community/playwright-go"
	"github.com/spf13/cobra"
	"github.com/staffhub/employee-e2e/internal/version"
	"github.com/staffhub/employee-e2e/tests/e2e/config"
	"github.com/staffhub/employee-e2e/tests/e2e/fixtures"
	"github.com/staffhub/employee-e2e/tests/e2e/visual"
	"gopkg.in/yaml.v3"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the Playwright driver and configured browsers",
	RunE:  runInstall,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration as YAML (secrets redacted)",
	RunE:  runConfig,
}

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Generate the upload fixture files",
	RunE:  runFixtures,
}

var baselinesCmd = &cobra.Command{
	Use:   "baselines",
	Short: "Manage visual regression baselines",
}

var baselinesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored baselines",
	RunE:    runBaselinesList,
}

var baselinesRemoveCmd = &cobra.Command{
	Use:   "rm NAME...",
	Short: "Remove baselines so the next update run records them again",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBaselinesRemove,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := yaml.Marshal(version.GetInfo())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check whether the application under test answers",
	RunE:  runProbe,
}

var (
	browsersFlag    []string
	fixturesDirFlag string
)

func init() {
	installCmd.Flags().StringSliceVar(&browsersFlag, "browsers", nil, "Browsers to install (default: configured browsers)")
	fixturesCmd.Flags().StringVar(&fixturesDirFlag, "dir", "", "Output directory (default: fixtures_dir)")

	baselinesCmd.AddCommand(baselinesListCmd)
	baselinesCmd.AddCommand(baselinesRemoveCmd)

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(fixturesCmd)
	rootCmd.AddCommand(baselinesCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(versionCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	browsers := browsersFlag
	if len(browsers) == 0 {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		browsers = cfg.Browsers
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Installing Playwright with %s...\n", strings.Join(browsers, ", "))
	if err := playwright.Install(&playwright.RunOptions{Browsers: browsers}); err != nil {
		return fmt.Errorf("could not install playwright: %w", err)
	}
	color.Green("Playwright installed")
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func runFixtures(cmd *cobra.Command, args []string) error {
	dir := fixturesDirFlag
	if dir == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir = cfg.FixturesDir
	}
	files, err := fixtures.EnsureFiles(dir)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), files.Image)
	fmt.Fprintln(cmd.OutOrStdout(), files.Document)
	return nil
}

func baselineStore() (*visual.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return visual.NewStore(cfg), nil
}

func runBaselinesList(cmd *cobra.Command, args []string) error {
	store, err := baselineStore()
	if err != nil {
		return err
	}
	names, err := store.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		color.Yellow("No baselines in %s", store.Dir)
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func runBaselinesRemove(cmd *cobra.Command, args []string) error {
	store, err := baselineStore()
	if err != nil {
		return err
	}
	for _, name := range args {
		if err := store.Remove(name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", filepath.Join(store.Dir, name))
	}
	return nil
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !config.Reachable(cfg.BaseURL) {
		return fmt.Errorf("application not reachable at %s", cfg.BaseURL)
	}
	color.Green("Application reachable at %s", cfg.BaseURL)
	return nil
}
