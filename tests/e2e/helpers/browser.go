package helpers

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/staffhub/employee-e2e/tests/e2e/config"
)

// BrowserOptions selects the browser engine and context emulation for a helper.
// Zero values mean: first configured browser, desktop 1280x720, no extra permissions.
type BrowserOptions struct {
	Browser     string
	Device      string
	Viewport    *playwright.Size
	Geolocation *playwright.Geolocation
	Permissions []string
}

// BrowserHelper provides browser setup and teardown for tests
type BrowserHelper struct {
	Playwright  *playwright.Playwright
	Browser     playwright.Browser
	Context     playwright.BrowserContext
	Page        playwright.Page
	Config      *config.TestConfig
	BrowserName string

	mu       sync.Mutex
	contexts []playwright.BrowserContext
	closed   bool
	t        *testing.T
}

// NewBrowserHelper creates a new browser helper instance
func NewBrowserHelper(t *testing.T) *BrowserHelper {
	return &BrowserHelper{
		Config: config.GetConfig(),
		t:      t,
	}
}

// Launch is the common scenario preamble: it skips when the application or the
// driver is unavailable and registers TearDown with t.Cleanup.
func Launch(t *testing.T, opts ...BrowserOptions) *BrowserHelper {
	t.Helper()
	b := NewBrowserHelper(t)
	RequireApp(t, b.Config)
	var o BrowserOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if err := b.SetupWith(o); err != nil {
		b.TearDown()
		if isDriverUnavailable(err) {
			t.Skipf("Playwright not available: %v", err)
		}
		t.Fatalf("Failed to setup browser: %v", err)
	}
	t.Cleanup(b.TearDown)
	return b
}

// RequireApp skips the test when the application under test does not answer.
func RequireApp(t *testing.T, cfg *config.TestConfig) {
	t.Helper()
	if os.Getenv("SKIP_BROWSER") == "true" {
		t.Skip("Skipping browser test (SKIP_BROWSER=true)")
	}
	if !config.Reachable(cfg.BaseURL) {
		t.Skipf("application under test not reachable at %s", cfg.BaseURL)
	}
}

// Setup initializes the default browser and creates a new page
func (b *BrowserHelper) Setup() error {
	return b.SetupWith(BrowserOptions{})
}

// SetupWith initializes the requested browser engine and creates a context and page.
func (b *BrowserHelper) SetupWith(opts BrowserOptions) error {
	name := opts.Browser
	if name == "" {
		name = b.Config.Browsers[0]
	}
	b.BrowserName = name

	pw, err := startPlaywright(name)
	if err != nil {
		return err
	}
	b.Playwright = pw

	browserType, err := b.browserType(name)
	if err != nil {
		return err
	}
	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.Config.Headless),
		SlowMo:   playwright.Float(config.Ms(b.Config.SlowMo)),
		Timeout:  playwright.Float(config.Ms(b.Config.Timeouts.Navigation)),
	})
	if err != nil {
		return fmt.Errorf("could not launch %s: %w", name, err)
	}
	b.Browser = browser

	context, err := b.NewContext(opts)
	if err != nil {
		return err
	}
	b.Context = context

	page, err := context.NewPage()
	if err != nil {
		return fmt.Errorf("could not create page: %w", err)
	}
	b.Page = page
	return nil
}

// NewContext creates an additional isolated context on the launched browser.
// Every context created here is closed by TearDown.
func (b *BrowserHelper) NewContext(opts BrowserOptions) (playwright.BrowserContext, error) {
	if b.Browser == nil {
		return nil, fmt.Errorf("browser not launched")
	}
	ctxOpts, err := BuildContextOptions(b.Config, opts, b.Playwright.Devices)
	if err != nil {
		return nil, err
	}
	context, err := b.Browser.NewContext(ctxOpts)
	if err != nil {
		return nil, fmt.Errorf("could not create context: %w", err)
	}
	context.SetDefaultTimeout(config.Ms(b.Config.Timeouts.Action))
	context.SetDefaultNavigationTimeout(config.Ms(b.Config.Timeouts.Navigation))

	b.mu.Lock()
	b.contexts = append(b.contexts, context)
	b.mu.Unlock()
	return context, nil
}

// NewUserPage opens a page in a fresh context, emulating a separate user.
func (b *BrowserHelper) NewUserPage(opts BrowserOptions) (playwright.Page, error) {
	context, err := b.NewContext(opts)
	if err != nil {
		return nil, err
	}
	page, err := context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	return page, nil
}

// BuildContextOptions translates BrowserOptions into playwright context options.
func BuildContextOptions(cfg *config.TestConfig, opts BrowserOptions, devices map[string]*playwright.DeviceDescriptor) (playwright.BrowserNewContextOptions, error) {
	ctxOpts := playwright.BrowserNewContextOptions{
		BaseURL:         playwright.String(cfg.BaseURL),
		AcceptDownloads: playwright.Bool(true),
		Viewport:        &playwright.Size{Width: 1280, Height: 720},
	}

	if opts.Device != "" {
		device, ok := devices[opts.Device]
		if !ok || device == nil {
			return ctxOpts, fmt.Errorf("unknown device descriptor %q", opts.Device)
		}
		ctxOpts.Viewport = device.Viewport
		ctxOpts.UserAgent = playwright.String(device.UserAgent)
		ctxOpts.DeviceScaleFactor = playwright.Float(device.DeviceScaleFactor)
		ctxOpts.IsMobile = playwright.Bool(device.IsMobile)
		ctxOpts.HasTouch = playwright.Bool(device.HasTouch)
	}
	if opts.Viewport != nil {
		ctxOpts.Viewport = opts.Viewport
	}
	if opts.Geolocation != nil {
		ctxOpts.Geolocation = opts.Geolocation
	}
	if len(opts.Permissions) > 0 {
		ctxOpts.Permissions = opts.Permissions
	}
	if cfg.Videos {
		ctxOpts.RecordVideo = &playwright.RecordVideo{
			Dir: filepath.Join(cfg.ResultsDir, "videos"),
		}
	}
	return ctxOpts, nil
}

func (b *BrowserHelper) browserType(name string) (playwright.BrowserType, error) {
	switch name {
	case "chromium":
		return b.Playwright.Chromium, nil
	case "firefox":
		return b.Playwright.Firefox, nil
	case "webkit":
		return b.Playwright.WebKit, nil
	}
	return nil, fmt.Errorf("unknown browser %q", name)
}

func startPlaywright(browser string) (*playwright.Playwright, error) {
	runOpts := &playwright.RunOptions{Browsers: []string{browser}}
	if os.Getenv("PLAYWRIGHT_PREINSTALLED") != "1" {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}
	pw, err := playwright.Run(runOpts)
	if err != nil {
		// driver version drift: reinstall once and retry
		_ = playwright.Install(runOpts)
		pw, err = playwright.Run(runOpts)
		if err != nil {
			return nil, fmt.Errorf("could not start playwright after retry: %w", err)
		}
	}
	return pw, nil
}

func isDriverUnavailable(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "could not install playwright") ||
		strings.Contains(msg, "could not start playwright")
}

// TearDown closes the browser and cleans up resources
func (b *BrowserHelper) TearDown() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	contexts := b.contexts
	b.contexts = nil
	b.mu.Unlock()

	if b.t.Failed() && b.Config.Screenshots && b.Page != nil {
		b.CaptureFailure(b.t, b.Page)
	}

	for _, c := range contexts {
		_ = c.Close()
	}
	if b.Browser != nil {
		_ = b.Browser.Close()
	}
	if b.Playwright != nil {
		_ = b.Playwright.Stop()
	}
}

// CaptureFailure saves a full-page screenshot of page into the results dir and
// returns its path, or "" when it could not be taken. Call it before the page's
// context is closed.
func (b *BrowserHelper) CaptureFailure(t testing.TB, page playwright.Page) string {
	dir := filepath.Join(b.Config.ResultsDir, "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("[e2e-browser] cannot create %s: %v", dir, err)
		return ""
	}
	path := filepath.Join(dir, failureScreenshotName(t.Name(), b.BrowserName, time.Now()))
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		log.Printf("[e2e-browser] failure screenshot not captured: %v", err)
		return ""
	}
	t.Logf("failure screenshot: %s", path)
	return path
}

// ClosePage closes the context of page, first capturing a screenshot when t
// failed and screenshots are enabled.
func (b *BrowserHelper) ClosePage(t testing.TB, page playwright.Page) {
	if t.Failed() && b.Config.Screenshots {
		b.CaptureFailure(t, page)
	}
	_ = page.Context().Close()
}

func failureScreenshotName(testName, browser string, at time.Time) string {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(testName)
	return fmt.Sprintf("%s_%s_%d.png", name, browser, at.Unix())
}

// NavigateTo navigates to a path relative to the base URL
func (b *BrowserHelper) NavigateTo(path string) error {
	url := b.Config.BaseURL + path
	_, err := b.Page.Goto(url, playwright.PageGotoOptions{
		Timeout: playwright.Float(config.Ms(b.Config.Timeouts.Navigation)),
	})
	if err != nil && strings.Contains(err.Error(), "ERR_TOO_MANY_REDIRECTS") {
		return fmt.Errorf("redirect loop navigating to %s (check BASE_URL): %w", url, err)
	}
	return err
}

// WaitForNetworkIdle waits until the page has no in-flight requests.
func (b *BrowserHelper) WaitForNetworkIdle() error {
	return b.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(config.Ms(b.Config.Timeouts.Navigation)),
	})
}
