package pages

import (
	_ "embed"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/staffhub/employee-e2e/tests/e2e/config"
	"github.com/staffhub/employee-e2e/tests/e2e/fixtures"
	"github.com/staffhub/employee-e2e/tests/e2e/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/fake_app.html
var fakeApp []byte

// launchAgainstFake serves a minimal in-memory employee app and opens it.
func launchAgainstFake(t *testing.T) *EmployeeManagementApp {
	t.Helper()
	if testing.Short() || os.Getenv("SKIP_BROWSER") == "true" {
		t.Skip("browser test skipped")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(fakeApp)
	}))
	t.Cleanup(srv.Close)

	cfg := config.Defaults()
	cfg.BaseURL = srv.URL
	cfg.Screenshots = false
	cfg.Timeouts.Action = 5 * time.Second
	cfg.Timeouts.Expect = 5 * time.Second
	cfg.Timeouts.Debounce = 50 * time.Millisecond

	b := helpers.NewBrowserHelper(t)
	b.Config = cfg
	if err := b.Setup(); err != nil {
		b.TearDown()
		t.Skipf("Playwright not available: %v", err)
	}
	t.Cleanup(b.TearDown)

	app := NewEmployeeManagementApp(b.Page, cfg)
	require.NoError(t, app.Goto())
	return app
}

func TestEmployeeManagementAppAgainstFake(t *testing.T) {
	app := launchAgainstFake(t)

	require.NoError(t, app.ExpectLoginScreen())

	require.NoError(t, app.SubmitLogin("invalid", "invalid"))
	require.NoError(t, app.ExpectValidationError(InvalidCredentials))

	require.NoError(t, app.Login("testuser", "password123"))
	require.NoError(t, app.NavigateToEmployeeList())

	t.Run("required fields", func(t *testing.T) {
		require.NoError(t, app.OpenAddForm())
		require.NoError(t, app.SubmitForm())
		assert.NoError(t, app.ExpectValidationError(NameRequired))
		assert.NoError(t, app.ExpectValidationError(EmailRequired))
	})

	alice, err := app.AddEmployeeRecord(fixtures.NewEmployee("Alice"))
	require.NoError(t, err)
	bob, err := app.AddEmployeeRecord(fixtures.NewEmployee("Bob"))
	require.NoError(t, err)
	assert.Equal(t, "1", alice.ID)
	assert.Equal(t, "2", bob.ID)

	t.Run("edit", func(t *testing.T) {
		renamed := fixtures.NewEmployee("Carol").Name
		require.NoError(t, app.EditEmployee(alice.ID, renamed))
		assert.NoError(t, app.ExpectEmployeeInList(renamed))
		assert.NoError(t, app.ExpectEmployeeNotInList(alice.Name))
	})

	t.Run("search", func(t *testing.T) {
		require.NoError(t, app.SearchEmployee("Bob"))
		assert.NoError(t, app.ExpectEmployeeInList(bob.Name))
		assert.NoError(t, app.ExpectEmployeeNotInList("Carol"))
		require.NoError(t, app.SearchEmployee(""))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, app.DeleteEmployee(bob.ID))
		assert.NoError(t, app.ExpectEmployeeNotInList(bob.Name))

		texts, err := app.EmployeeTexts()
		require.NoError(t, err)
		assert.Len(t, texts, 1)
	})

	t.Run("aria labels", func(t *testing.T) {
		assert.NoError(t, app.ExpectAttribute(helpers.InputTestID(helpers.UsernameField), "aria-label", "Username"))
	})

	require.NoError(t, app.Logout())
	assert.NoError(t, app.ExpectLoginScreen())
}
