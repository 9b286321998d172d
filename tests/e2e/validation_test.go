package e2e

import (
	"testing"

	"github.com/staffhub/employee-e2e/tests/e2e/helpers"
	"github.com/staffhub/employee-e2e/tests/e2e/pages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormValidation(t *testing.T) {
	b := helpers.Launch(t)

	testCases := []struct {
		name   string
		email  string
		phone  string
		fill   string
		errors []string
	}{
		{
			name:   "Validates required fields",
			errors: []string{pages.NameRequired, pages.EmailRequired},
		},
		{
			name:   "Validates email format",
			fill:   "Test User",
			email:  "invalid-email",
			errors: []string{pages.InvalidEmail},
		},
		{
			name:   "Validates phone format",
			fill:   "Test User",
			email:  "test@example.com",
			phone:  "invalid-phone",
			errors: []string{pages.InvalidPhone},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := openEmployeeList(t, b)
			require.NoError(t, app.OpenAddForm())
			require.NoError(t, app.FillForm(tc.fill, tc.email, tc.phone))
			require.NoError(t, app.SubmitForm())

			for _, msg := range tc.errors {
				assert.NoError(t, app.ExpectValidationError(msg))
			}
		})
	}
}
