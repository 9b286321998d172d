package e2e

import (
	"net/http"
	"testing"
	"time"

	"github.com/staffhub/employee-e2e/tests/e2e/config"
	"github.com/staffhub/employee-e2e/tests/e2e/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConnectivity verifies the application answers before any browser starts.
func TestConnectivity(t *testing.T) {
	cfg := config.GetConfig()
	helpers.RequireApp(t, cfg)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(cfg.BaseURL + "/")
	require.NoError(t, err, "Failed to connect to %s", cfg.BaseURL)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	t.Logf("Connected to application at %s (status %d)", cfg.BaseURL, resp.StatusCode)
}
