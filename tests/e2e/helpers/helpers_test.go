package helpers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/staffhub/employee-e2e/tests/e2e/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectors(t *testing.T) {
	testCases := []struct {
		name     string
		got      string
		expected string
	}{
		{"test id", TestID(EmployeeList), `[data-testid="employee-list"]`},
		{"input", InputTestID(UsernameField), `input[data-testid="username-field"]`},
		{"button", ButtonTestID(LoginButton), `button[data-testid="login-button"]`},
		{"text", Text("Employee Management"), "text=Employee Management"},
		{"edit", EditEmployeeButton("7"), `button[data-testid="edit-employee-7"]`},
		{"delete", DeleteEmployeeButton("7"), `button[data-testid="delete-employee-7"]`},
		{"item", EmployeeItem("7"), `[data-testid="employee-item-7"]`},
		{"photo", EmployeePhoto("7"), `img[data-testid="employee-photo-7"]`},
		{"any item", AnyEmployeeItem(), `[data-testid^="employee-item-"]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.got)
		})
	}
}

func TestEmployeeIDFromTestID(t *testing.T) {
	id, err := EmployeeIDFromTestID("employee-item-42")
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	_, err = EmployeeIDFromTestID("employee-photo-42")
	assert.Error(t, err)

	_, err = EmployeeIDFromTestID("employee-item-")
	assert.Error(t, err)
}

func TestCredentials(t *testing.T) {
	cfg := config.Defaults()

	assert.Equal(t, Credentials{Username: "testuser", Password: "password123"}, DefaultCredentials(cfg))
	assert.Equal(t, Credentials{Username: "invalid", Password: "invalid"}, InvalidCredentials(cfg))
}

func TestBuildContextOptions(t *testing.T) {
	cfg := config.Defaults()
	devices := map[string]*playwright.DeviceDescriptor{
		"iPhone 12": {
			UserAgent:         "Mozilla/5.0 (iPhone)",
			Viewport:          &playwright.Size{Width: 390, Height: 664},
			DeviceScaleFactor: 3,
			IsMobile:          true,
			HasTouch:          true,
		},
	}

	t.Run("desktop defaults", func(t *testing.T) {
		opts, err := BuildContextOptions(cfg, BrowserOptions{}, devices)
		require.NoError(t, err)
		assert.Equal(t, 1280, opts.Viewport.Width)
		assert.Equal(t, 720, opts.Viewport.Height)
		assert.Equal(t, cfg.BaseURL, *opts.BaseURL)
		assert.True(t, *opts.AcceptDownloads)
		assert.Nil(t, opts.IsMobile)
		assert.Nil(t, opts.RecordVideo)
	})

	t.Run("device descriptor", func(t *testing.T) {
		opts, err := BuildContextOptions(cfg, BrowserOptions{Device: "iPhone 12"}, devices)
		require.NoError(t, err)
		assert.Equal(t, 390, opts.Viewport.Width)
		assert.Equal(t, "Mozilla/5.0 (iPhone)", *opts.UserAgent)
		assert.True(t, *opts.IsMobile)
		assert.True(t, *opts.HasTouch)
		assert.Equal(t, 3.0, *opts.DeviceScaleFactor)
	})

	t.Run("explicit viewport wins over device", func(t *testing.T) {
		opts, err := BuildContextOptions(cfg, BrowserOptions{
			Device:   "iPhone 12",
			Viewport: &playwright.Size{Width: 375, Height: 667},
		}, devices)
		require.NoError(t, err)
		assert.Equal(t, 375, opts.Viewport.Width)
		assert.Equal(t, 667, opts.Viewport.Height)
	})

	t.Run("geolocation and permissions", func(t *testing.T) {
		opts, err := BuildContextOptions(cfg, BrowserOptions{
			Geolocation: &playwright.Geolocation{Latitude: 37.7749, Longitude: -122.4194},
			Permissions: []string{"geolocation"},
		}, devices)
		require.NoError(t, err)
		assert.Equal(t, 37.7749, opts.Geolocation.Latitude)
		assert.Equal(t, []string{"geolocation"}, opts.Permissions)
	})

	t.Run("unknown device", func(t *testing.T) {
		_, err := BuildContextOptions(cfg, BrowserOptions{Device: "Nokia 3310"}, devices)
		assert.Error(t, err)
	})

	t.Run("video recording", func(t *testing.T) {
		videoCfg := config.Defaults()
		videoCfg.Videos = true
		opts, err := BuildContextOptions(videoCfg, BrowserOptions{}, devices)
		require.NoError(t, err)
		require.NotNil(t, opts.RecordVideo)
		assert.Contains(t, opts.RecordVideo.Dir, "videos")
	})
}

func TestFailureScreenshotName(t *testing.T) {
	at := time.Unix(1700000000, 0)
	assert.Equal(t, "TestAuth_Logs_out_chromium_1700000000.png",
		failureScreenshotName("TestAuth/Logs out", "chromium", at))
}

func TestCaptureFailureUsesGivenPage(t *testing.T) {
	if testing.Short() || os.Getenv("SKIP_BROWSER") == "true" {
		t.Skip("browser test skipped")
	}
	cfg := *config.Defaults()
	cfg.ResultsDir = t.TempDir()

	b := NewBrowserHelper(t)
	b.Config = &cfg
	if err := b.Setup(); err != nil {
		b.TearDown()
		t.Skipf("Playwright not available: %v", err)
	}
	t.Cleanup(b.TearDown)

	page, err := b.NewUserPage(BrowserOptions{})
	require.NoError(t, err)
	require.NoError(t, page.SetContent(`<h1 style="background:#c00">failing page</h1>`))

	path := b.CaptureFailure(t, page)
	require.NotEmpty(t, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
	assert.Equal(t, filepath.Join(cfg.ResultsDir, "screenshots"), filepath.Dir(path))

	// a passing test closes the context without a screenshot
	b.ClosePage(t, page)
	assert.True(t, page.IsClosed())
	shots, err := filepath.Glob(filepath.Join(cfg.ResultsDir, "screenshots", "*.png"))
	require.NoError(t, err)
	assert.Len(t, shots, 1)
}

func TestNavigateToAndNetworkIdle(t *testing.T) {
	if testing.Short() || os.Getenv("SKIP_BROWSER") == "true" {
		t.Skip("browser test skipped")
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<title>` + r.URL.Path + `</title><h1>Employee Management</h1>`))
	}))
	defer srv.Close()

	cfg := *config.Defaults()
	cfg.BaseURL = srv.URL
	cfg.ResultsDir = t.TempDir()

	b := NewBrowserHelper(t)
	b.Config = &cfg
	if err := b.Setup(); err != nil {
		b.TearDown()
		t.Skipf("Playwright not available: %v", err)
	}
	t.Cleanup(b.TearDown)

	require.NoError(t, b.NavigateTo("/employees"))
	require.NoError(t, b.WaitForNetworkIdle())

	title, err := b.Page.Title()
	require.NoError(t, err)
	assert.Equal(t, "/employees", title)
	assert.Equal(t, srv.URL+"/employees", b.Page.URL())
}
