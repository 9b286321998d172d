package e2e

import (
	"net/http"
	"testing"

	"github.com/staffhub/employee-e2e/tests/e2e/fixtures"
	"github.com/staffhub/employee-e2e/tests/e2e/helpers"
	"github.com/staffhub/employee-e2e/tests/e2e/network"
	"github.com/staffhub/employee-e2e/tests/e2e/pages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandling(t *testing.T) {
	b := helpers.Launch(t)

	t.Run("Handles network errors gracefully", func(t *testing.T) {
		app := openEmployeeList(t, b)
		require.NoError(t, network.AbortAll(app.Page(), network.AnyAPI))

		e := fixtures.NewEmployee("Network Error User")
		require.NoError(t, app.OpenAddForm())
		require.NoError(t, app.FillForm(e.Name, e.Email, e.Phone))
		require.NoError(t, app.SubmitForm())

		assert.NoError(t, app.ExpectValidationError(pages.NetworkError))
	})

	t.Run("Handles server errors", func(t *testing.T) {
		app := openApp(t, b)
		login(t, app, b.Config)
		require.NoError(t, network.FailWith(app.Page(), network.EmployeesAPI,
			http.StatusInternalServerError, "Internal Server Error"))

		require.NoError(t, app.OpenEmployeeListLink())
		assert.NoError(t, app.ExpectValidationError(pages.ServerError))
	})
}
