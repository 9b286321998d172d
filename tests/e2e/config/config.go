package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// TestConfig holds all configuration for E2E tests
type TestConfig struct {
	BaseURL         string            `mapstructure:"base_url" yaml:"base_url"`
	Browsers        []string          `mapstructure:"browsers" yaml:"browsers"`
	Headless        bool              `mapstructure:"headless" yaml:"headless"`
	SlowMo          time.Duration     `mapstructure:"slow_mo" yaml:"slow_mo"`
	Screenshots     bool              `mapstructure:"screenshots" yaml:"screenshots"`
	Videos          bool              `mapstructure:"videos" yaml:"videos"`
	Autodetect      bool              `mapstructure:"autodetect" yaml:"autodetect"`
	ResultsDir      string            `mapstructure:"results_dir" yaml:"results_dir"`
	BaselinesDir    string            `mapstructure:"baselines_dir" yaml:"baselines_dir"`
	FixturesDir     string            `mapstructure:"fixtures_dir" yaml:"fixtures_dir"`
	UpdateBaselines bool              `mapstructure:"update_baselines" yaml:"update_baselines"`
	MetricsFile     string            `mapstructure:"metrics_file" yaml:"metrics_file"`
	Credentials     CredentialsConfig `mapstructure:"credentials" yaml:"credentials"`
	Timeouts        TimeoutConfig     `mapstructure:"timeouts" yaml:"timeouts"`
	Performance     PerformanceConfig `mapstructure:"performance" yaml:"performance"`
	Visual          VisualConfig      `mapstructure:"visual" yaml:"visual"`
	Load            LoadConfig        `mapstructure:"load" yaml:"load"`
}

type CredentialsConfig struct {
	Username        string `mapstructure:"username" yaml:"username"`
	Password        string `mapstructure:"password" yaml:"password"`
	InvalidUsername string `mapstructure:"invalid_username" yaml:"invalid_username"`
	InvalidPassword string `mapstructure:"invalid_password" yaml:"invalid_password"`
}

// TimeoutConfig bounds every wait the suite performs.
type TimeoutConfig struct {
	Navigation time.Duration `mapstructure:"navigation" yaml:"navigation"`
	Action     time.Duration `mapstructure:"action" yaml:"action"`
	Expect     time.Duration `mapstructure:"expect" yaml:"expect"`
	Debounce   time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

type PerformanceConfig struct {
	AppLoad          time.Duration `mapstructure:"app_load" yaml:"app_load"`
	TotalLoad        time.Duration `mapstructure:"total_load" yaml:"total_load"`
	DOMContentLoaded time.Duration `mapstructure:"dom_content_loaded" yaml:"dom_content_loaded"`
	Search           time.Duration `mapstructure:"search" yaml:"search"`
}

type VisualConfig struct {
	PixelTolerance float64 `mapstructure:"pixel_tolerance" yaml:"pixel_tolerance"`
	MaxDiffRatio   float64 `mapstructure:"max_diff_ratio" yaml:"max_diff_ratio"`
}

type LoadConfig struct {
	ConcurrentUsers int `mapstructure:"concurrent_users" yaml:"concurrent_users"`
	LargeListSize   int `mapstructure:"large_list_size" yaml:"large_list_size"`
}

// Ms converts a duration into the float milliseconds playwright options expect.
func Ms(d time.Duration) float64 {
	return float64(d.Milliseconds())
}

var knownBrowsers = map[string]bool{"chromium": true, "firefox": true, "webkit": true}

var (
	cfg      *TestConfig
	loadOnce sync.Once
	envOnce  sync.Once
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("browsers", []string{"chromium"})
	v.SetDefault("headless", true)
	v.SetDefault("slow_mo", time.Duration(0))
	v.SetDefault("screenshots", true)
	v.SetDefault("videos", false)
	v.SetDefault("autodetect", true)
	v.SetDefault("results_dir", "./test-results")
	v.SetDefault("baselines_dir", "./testdata/baselines")
	v.SetDefault("fixtures_dir", "./test-files")
	v.SetDefault("update_baselines", false)
	v.SetDefault("metrics_file", "./test-results/metrics.prom")

	v.SetDefault("credentials.username", "testuser")
	v.SetDefault("credentials.password", "password123")
	v.SetDefault("credentials.invalid_username", "invalid")
	v.SetDefault("credentials.invalid_password", "invalid")

	v.SetDefault("timeouts.navigation", 30*time.Second)
	v.SetDefault("timeouts.action", 15*time.Second)
	v.SetDefault("timeouts.expect", 5*time.Second)
	v.SetDefault("timeouts.debounce", time.Second)

	v.SetDefault("performance.app_load", 5*time.Second)
	v.SetDefault("performance.total_load", 5*time.Second)
	v.SetDefault("performance.dom_content_loaded", 2*time.Second)
	v.SetDefault("performance.search", 2*time.Second)

	v.SetDefault("visual.pixel_tolerance", 0.1)
	v.SetDefault("visual.max_diff_ratio", 0.01)

	v.SetDefault("load.concurrent_users", 3)
	v.SetDefault("load.large_list_size", 50)
}

var durationType = reflect.TypeOf(time.Duration(0))

// millisecondsHook decodes bare integers into durations as milliseconds, the
// unit the legacy SLOW_MO variable and playwright options use. Values that are
// already durations pass through untouched.
func millisecondsHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != durationType || from == durationType {
		return data, nil
	}
	switch from.Kind() {
	case reflect.String:
		n, err := strconv.ParseInt(strings.TrimSpace(reflect.ValueOf(data).String()), 10, 64)
		if err != nil {
			return data, nil
		}
		return time.Duration(n) * time.Millisecond, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return time.Duration(reflect.ValueOf(data).Int()) * time.Millisecond, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return time.Duration(reflect.ValueOf(data).Uint()) * time.Millisecond, nil
	}
	return data, nil
}

var decodeHook = viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
	millisecondsHook,
	mapstructure.StringToTimeDurationHookFunc(),
	mapstructure.StringToSliceHookFunc(","),
))

// loadDotEnv loads .env once. Existing environment variables take precedence.
func loadDotEnv() {
	envOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("[e2e-config] ignoring unreadable .env: %v", err)
		}
	})
}

// Load builds a fresh configuration. An empty path searches for e2e.yaml in the
// working directory and tests/e2e; a missing file there is not an error.
func Load(path string) (*TestConfig, error) {
	loadDotEnv()

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("e2e")
		v.AddConfigPath(".")
		v.AddConfigPath("tests/e2e")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read e2e config: %w", err)
		}
	}

	v.SetEnvPrefix("E2E")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// unprefixed names kept for CI scripts; RAW_BASE_URL is an explicit injection hook
	_ = v.BindEnv("base_url", "RAW_BASE_URL", "E2E_BASE_URL", "BASE_URL")
	_ = v.BindEnv("headless", "E2E_HEADLESS", "HEADLESS")
	_ = v.BindEnv("slow_mo", "E2E_SLOW_MO", "SLOW_MO")
	_ = v.BindEnv("screenshots", "E2E_SCREENSHOTS", "SCREENSHOTS")
	_ = v.BindEnv("videos", "E2E_VIDEOS", "VIDEOS")
	_ = v.BindEnv("autodetect", "E2E_AUTODETECT", "E2E_BASEURL_AUTODETECT")
	_ = v.BindEnv("update_baselines", "E2E_UPDATE_BASELINES", "UPDATE_SNAPSHOTS")

	c := &TestConfig{}
	if err := v.Unmarshal(c, decodeHook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal e2e config: %w", err)
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	for i, b := range c.Browsers {
		c.Browsers[i] = strings.ToLower(strings.TrimSpace(b))
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.Autodetect {
		c.BaseURL = detectReachableBaseURLVerbose(c.BaseURL)
	}
	log.Printf("[e2e-config] Resolved BaseURL=%s browsers=%v headless=%t", c.BaseURL, c.Browsers, c.Headless)
	return c, nil
}

// Validate rejects configurations that would allow an unbounded wait.
func (c *TestConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url must not be empty")
	}
	if len(c.Browsers) == 0 {
		return errors.New("at least one browser must be configured")
	}
	for _, b := range c.Browsers {
		if !knownBrowsers[b] {
			return fmt.Errorf("unknown browser %q (want chromium, firefox or webkit)", b)
		}
	}
	timeouts := map[string]time.Duration{
		"timeouts.navigation":            c.Timeouts.Navigation,
		"timeouts.action":                c.Timeouts.Action,
		"timeouts.expect":                c.Timeouts.Expect,
		"timeouts.debounce":              c.Timeouts.Debounce,
		"performance.app_load":           c.Performance.AppLoad,
		"performance.total_load":         c.Performance.TotalLoad,
		"performance.dom_content_loaded": c.Performance.DOMContentLoaded,
		"performance.search":             c.Performance.Search,
	}
	for key, d := range timeouts {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", key, d)
		}
	}
	if c.Visual.MaxDiffRatio < 0 || c.Visual.MaxDiffRatio > 1 {
		return fmt.Errorf("visual.max_diff_ratio must be within [0,1], got %v", c.Visual.MaxDiffRatio)
	}
	if c.Load.ConcurrentUsers < 1 {
		return fmt.Errorf("load.concurrent_users must be at least 1, got %d", c.Load.ConcurrentUsers)
	}
	return nil
}

// GetConfig returns the process-wide test configuration, loading it on first use.
// An unusable configuration stops the run.
func GetConfig() *TestConfig {
	loadOnce.Do(func() {
		c, err := Load("")
		if err != nil {
			log.Fatalf("[e2e-config] %v", err)
		}
		cfg = c
	})
	return cfg
}

// Defaults returns the built-in configuration without consulting files or the environment.
func Defaults() *TestConfig {
	v := viper.New()
	setDefaults(v)
	c := &TestConfig{}
	if err := v.Unmarshal(c, decodeHook); err != nil {
		panic(fmt.Sprintf("default e2e config does not decode: %v", err))
	}
	return c
}

// Redacted returns a copy safe for printing.
func (c *TestConfig) Redacted() TestConfig {
	out := *c
	out.Browsers = append([]string(nil), c.Browsers...)
	if out.Credentials.Password != "" {
		out.Credentials.Password = "********"
	}
	return out
}
