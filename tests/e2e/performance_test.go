package e2e

import (
	"testing"

	"github.com/staffhub/employee-e2e/tests/e2e/fixtures"
	"github.com/staffhub/employee-e2e/tests/e2e/helpers"
	"github.com/staffhub/employee-e2e/tests/e2e/pages"
	"github.com/staffhub/employee-e2e/tests/e2e/perf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformance(t *testing.T) {
	b := helpers.Launch(t)
	cfg := b.Config

	t.Run("App loads within acceptable time", func(t *testing.T) {
		page, err := b.NewUserPage(helpers.BrowserOptions{})
		require.NoError(t, err)
		t.Cleanup(func() { b.ClosePage(t, page) })
		app := pages.NewEmployeeManagementApp(page, cfg)

		elapsed, err := recorder.Time("app_load", "login_screen", func() error {
			if err := app.Goto(); err != nil {
				return err
			}
			return app.ExpectVisible(helpers.Text(pages.LoginHeading))
		})
		require.NoError(t, err)
		assert.Less(t, elapsed, cfg.Performance.AppLoad, "login screen took %v", elapsed)
	})

	t.Run("Navigation timing within thresholds", func(t *testing.T) {
		require.NoError(t, b.NavigateTo("/"))
		require.NoError(t, b.WaitForNetworkIdle())

		metrics, err := perf.CollectNavigationMetrics(b.Page)
		require.NoError(t, err)
		recorder.RecordNavigation("navigation_timing", metrics)
		t.Logf("Navigation timing: %+v", metrics)

		thresholds := perf.Thresholds{
			TotalLoad:        cfg.Performance.TotalLoad,
			DOMContentLoaded: cfg.Performance.DOMContentLoaded,
		}
		assert.Empty(t, thresholds.Violations(metrics))
	})

	t.Run("Handles large employee list", func(t *testing.T) {
		if testing.Short() {
			t.Skip("large list seeding skipped in short mode")
		}
		app := openEmployeeList(t, b)

		employees := fixtures.Employees("Employee", cfg.Load.LargeListSize)
		for _, e := range employees {
			_, err := recorder.Time("large_list", "add_employee", func() error {
				return app.AddEmployee(e.Name, e.Email, e.Phone)
			})
			require.NoError(t, err)
		}

		target := employees[len(employees)/2]
		elapsed, err := recorder.Time("large_list", "search", func() error {
			return app.SearchEmployee(target.Name)
		})
		require.NoError(t, err)
		assert.Less(t, elapsed, cfg.Performance.Search, "search took %v", elapsed)
		assert.NoError(t, app.ExpectEmployeeInList(target.Name))
	})
}
