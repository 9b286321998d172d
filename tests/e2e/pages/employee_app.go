// Package pages holds page objects for the employee management application.
package pages

import (
	"fmt"
	"regexp"

	"github.com/playwright-community/playwright-go"
	"github.com/staffhub/employee-e2e/tests/e2e/config"
	"github.com/staffhub/employee-e2e/tests/e2e/fixtures"
	"github.com/staffhub/employee-e2e/tests/e2e/helpers"
)

// Literal UI texts the application renders.
const (
	LoginHeading        = "Login"
	EmployeeListLink    = "Employee List"
	InvalidCredentials  = "Invalid credentials"
	NameRequired        = "Name is required"
	EmailRequired       = "Email is required"
	InvalidEmail        = "Please enter a valid email"
	InvalidPhone        = "Please enter a valid phone number"
	InvalidImage        = "Please select a valid image file"
	NetworkError        = "Network error. Please try again."
	ServerError         = "Server error. Please try again later."
	ExportFilename      = "employees.csv"
	fileInput           = `input[type="file"]`
	deletedItemFunction = `id => !document.querySelector('[data-testid="employee-item-' + id + '"]')`
)

// EmployeeManagementApp groups the UI interactions scenarios share. Every wait
// is bounded by the configured timeouts; a timeout is returned as the error.
type EmployeeManagementApp struct {
	page     playwright.Page
	auth     *helpers.AuthHelper
	expect   playwright.PlaywrightAssertions
	timeouts config.TimeoutConfig
	baseURL  string
}

// NewEmployeeManagementApp wraps page.
func NewEmployeeManagementApp(page playwright.Page, cfg *config.TestConfig) *EmployeeManagementApp {
	return &EmployeeManagementApp{
		page:     page,
		auth:     helpers.NewAuthHelper(cfg),
		expect:   playwright.NewPlaywrightAssertions(config.Ms(cfg.Timeouts.Expect)),
		timeouts: cfg.Timeouts,
		baseURL:  cfg.BaseURL,
	}
}

// Page exposes the wrapped page for scenario-specific interactions.
func (a *EmployeeManagementApp) Page() playwright.Page {
	return a.page
}

func (a *EmployeeManagementApp) actionTimeout() *float64 {
	return playwright.Float(config.Ms(a.timeouts.Action))
}

func (a *EmployeeManagementApp) waitFor(selector string) error {
	_, err := a.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		Timeout: a.actionTimeout(),
	})
	return err
}

func (a *EmployeeManagementApp) click(selector string) error {
	return a.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
		Timeout: a.actionTimeout(),
	})
}

func (a *EmployeeManagementApp) fill(selector, value string) error {
	return a.page.Locator(selector).Fill(value, playwright.LocatorFillOptions{
		Timeout: a.actionTimeout(),
	})
}

// Goto opens the application root.
func (a *EmployeeManagementApp) Goto() error {
	if _, err := a.page.Goto(a.baseURL+"/", playwright.PageGotoOptions{
		Timeout: playwright.Float(config.Ms(a.timeouts.Navigation)),
	}); err != nil {
		return fmt.Errorf("failed to open %s: %w", a.baseURL, err)
	}
	return nil
}

// Login signs in and waits for the home screen.
func (a *EmployeeManagementApp) Login(username, password string) error {
	return a.auth.LoginAndWait(a.page, helpers.Credentials{Username: username, Password: password})
}

// SubmitLogin signs in without waiting for the home screen, for rejected logins.
func (a *EmployeeManagementApp) SubmitLogin(username, password string) error {
	return a.auth.SubmitLogin(a.page, helpers.Credentials{Username: username, Password: password})
}

func (a *EmployeeManagementApp) Logout() error {
	if err := a.click(helpers.ButtonTestID(helpers.LogoutButton)); err != nil {
		return fmt.Errorf("failed to click logout: %w", err)
	}
	if err := a.waitFor(helpers.Text(LoginHeading)); err != nil {
		return fmt.Errorf("login screen did not appear after logout: %w", err)
	}
	return nil
}

// OpenEmployeeListLink clicks the navigation entry without waiting for the
// list, for scenarios where loading it is expected to fail.
func (a *EmployeeManagementApp) OpenEmployeeListLink() error {
	if err := a.click(helpers.Text(EmployeeListLink)); err != nil {
		return fmt.Errorf("failed to open employee list: %w", err)
	}
	return nil
}

func (a *EmployeeManagementApp) NavigateToEmployeeList() error {
	if err := a.OpenEmployeeListLink(); err != nil {
		return err
	}
	if err := a.waitFor(helpers.TestID(helpers.EmployeeList)); err != nil {
		return fmt.Errorf("employee list did not render: %w", err)
	}
	return nil
}

// OpenAddForm clicks the add button and waits for the empty form.
func (a *EmployeeManagementApp) OpenAddForm() error {
	if err := a.click(helpers.ButtonTestID(helpers.AddEmployeeButton)); err != nil {
		return fmt.Errorf("failed to click add employee: %w", err)
	}
	if err := a.waitFor(helpers.TestID(helpers.EmployeeForm)); err != nil {
		return fmt.Errorf("employee form did not open: %w", err)
	}
	return nil
}

// FillForm fills the form fields; empty values leave a field untouched.
func (a *EmployeeManagementApp) FillForm(name, email, phone string) error {
	fields := []struct {
		testID string
		value  string
	}{
		{helpers.NameField, name},
		{helpers.EmailField, email},
		{helpers.PhoneField, phone},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := a.fill(helpers.InputTestID(f.testID), f.value); err != nil {
			return fmt.Errorf("failed to fill %s: %w", f.testID, err)
		}
	}
	return nil
}

// SubmitForm clicks save without waiting for any outcome.
func (a *EmployeeManagementApp) SubmitForm() error {
	if err := a.click(helpers.ButtonTestID(helpers.SaveEmployeeButton)); err != nil {
		return fmt.Errorf("failed to click save: %w", err)
	}
	return nil
}

// AddEmployee creates an employee and waits until its name is listed.
func (a *EmployeeManagementApp) AddEmployee(name, email, phone string) error {
	if err := a.OpenAddForm(); err != nil {
		return err
	}
	if err := a.FillForm(name, email, phone); err != nil {
		return err
	}
	if err := a.SubmitForm(); err != nil {
		return err
	}
	if err := a.waitFor(helpers.Text(name)); err != nil {
		return fmt.Errorf("employee %q did not appear in the list: %w", name, err)
	}
	return nil
}

// AddEmployeeRecord adds e and returns it with the id the application assigned.
func (a *EmployeeManagementApp) AddEmployeeRecord(e fixtures.Employee) (fixtures.Employee, error) {
	if err := a.AddEmployee(e.Name, e.Email, e.Phone); err != nil {
		return e, err
	}
	id, err := a.EmployeeIDByName(e.Name)
	if err != nil {
		return e, err
	}
	e.ID = id
	return e, nil
}

// EmployeeIDByName resolves the id of the list entry whose text contains name.
func (a *EmployeeManagementApp) EmployeeIDByName(name string) (string, error) {
	item := a.page.Locator(helpers.AnyEmployeeItem()).Filter(playwright.LocatorFilterOptions{
		HasText: name,
	}).First()
	if err := item.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: a.actionTimeout(),
	}); err != nil {
		return "", fmt.Errorf("no list entry for %q: %w", name, err)
	}
	testID, err := item.GetAttribute("data-testid")
	if err != nil {
		return "", fmt.Errorf("failed to read test id for %q: %w", name, err)
	}
	return helpers.EmployeeIDFromTestID(testID)
}

func (a *EmployeeManagementApp) openEditForm(employeeID string) error {
	if err := a.click(helpers.EditEmployeeButton(employeeID)); err != nil {
		return fmt.Errorf("failed to click edit for employee %s: %w", employeeID, err)
	}
	if err := a.waitFor(helpers.TestID(helpers.EmployeeForm)); err != nil {
		return fmt.Errorf("edit form for employee %s did not open: %w", employeeID, err)
	}
	return nil
}

// EditEmployee renames an employee and waits for the new name to be listed.
func (a *EmployeeManagementApp) EditEmployee(employeeID, newName string) error {
	if err := a.openEditForm(employeeID); err != nil {
		return err
	}
	if err := a.fill(helpers.InputTestID(helpers.NameField), newName); err != nil {
		return fmt.Errorf("failed to fill new name: %w", err)
	}
	if err := a.SubmitForm(); err != nil {
		return err
	}
	if err := a.waitFor(helpers.Text(newName)); err != nil {
		return fmt.Errorf("renamed employee %q did not appear: %w", newName, err)
	}
	return nil
}

// DeleteEmployee deletes an employee and waits until its list entry is gone.
func (a *EmployeeManagementApp) DeleteEmployee(employeeID string) error {
	if err := a.click(helpers.DeleteEmployeeButton(employeeID)); err != nil {
		return fmt.Errorf("failed to click delete for employee %s: %w", employeeID, err)
	}
	if err := a.click(helpers.ButtonTestID(helpers.ConfirmDelete)); err != nil {
		return fmt.Errorf("failed to confirm delete: %w", err)
	}
	if _, err := a.page.WaitForFunction(deletedItemFunction, employeeID, playwright.PageWaitForFunctionOptions{
		Timeout: a.actionTimeout(),
	}); err != nil {
		return fmt.Errorf("employee %s still listed after delete: %w", employeeID, err)
	}
	return nil
}

// SearchEmployee types a search term and waits out the search debounce.
func (a *EmployeeManagementApp) SearchEmployee(term string) error {
	if err := a.fill(helpers.InputTestID(helpers.SearchField), term); err != nil {
		return fmt.Errorf("failed to fill search: %w", err)
	}
	a.page.WaitForTimeout(config.Ms(a.timeouts.Debounce))
	return nil
}

// SetPhoto selects a file in the form's file input.
func (a *EmployeeManagementApp) SetPhoto(path string) error {
	if err := a.page.Locator(fileInput).SetInputFiles(path, playwright.LocatorSetInputFilesOptions{
		Timeout: a.actionTimeout(),
	}); err != nil {
		return fmt.Errorf("failed to set input file %s: %w", path, err)
	}
	return nil
}

// OpenEditForm opens the edit form of an employee without changing anything.
func (a *EmployeeManagementApp) OpenEditForm(employeeID string) error {
	return a.openEditForm(employeeID)
}

// UploadEmployeePhoto attaches a photo to an employee and waits for it to render.
func (a *EmployeeManagementApp) UploadEmployeePhoto(employeeID, photoPath string) error {
	if err := a.openEditForm(employeeID); err != nil {
		return err
	}
	if err := a.SetPhoto(photoPath); err != nil {
		return err
	}
	if err := a.SubmitForm(); err != nil {
		return err
	}
	if err := a.waitFor(helpers.EmployeePhoto(employeeID)); err != nil {
		return fmt.Errorf("photo for employee %s did not render: %w", employeeID, err)
	}
	return nil
}

// ExportEmployees clicks the export control and returns the finished download.
func (a *EmployeeManagementApp) ExportEmployees() (playwright.Download, error) {
	download, err := a.page.ExpectDownload(func() error {
		return a.click(helpers.ButtonTestID(helpers.ExportButton))
	}, playwright.PageExpectDownloadOptions{
		Timeout: a.actionTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("export did not start a download: %w", err)
	}
	return download, nil
}

// DragEmployee drags one list entry onto another.
func (a *EmployeeManagementApp) DragEmployee(fromID, toID string) error {
	from := a.page.Locator(helpers.EmployeeItem(fromID))
	to := a.page.Locator(helpers.EmployeeItem(toID))
	if err := from.DragTo(to, playwright.LocatorDragToOptions{Timeout: a.actionTimeout()}); err != nil {
		return fmt.Errorf("failed to drag employee %s onto %s: %w", fromID, toID, err)
	}
	return nil
}

// EmployeeTexts returns the text of every list entry in display order.
func (a *EmployeeManagementApp) EmployeeTexts() ([]string, error) {
	return a.page.Locator(helpers.AnyEmployeeItem()).AllTextContents()
}

func (a *EmployeeManagementApp) OpenMobileMenu() error {
	if err := a.click(helpers.TestID(helpers.MobileMenuButton)); err != nil {
		return fmt.Errorf("failed to open mobile menu: %w", err)
	}
	return nil
}

// ExpectLoginScreen asserts the login heading and both credential fields are visible.
func (a *EmployeeManagementApp) ExpectLoginScreen() error {
	if err := a.ExpectVisible(helpers.Text(LoginHeading)); err != nil {
		return err
	}
	if err := a.ExpectVisible(helpers.InputTestID(helpers.UsernameField)); err != nil {
		return err
	}
	return a.ExpectVisible(helpers.InputTestID(helpers.PasswordField))
}

// ExpectVisible asserts the first element matching selector becomes visible.
func (a *EmployeeManagementApp) ExpectVisible(selector string) error {
	if err := a.expect.Locator(a.page.Locator(selector).First()).ToBeVisible(); err != nil {
		return fmt.Errorf("%s not visible: %w", selector, err)
	}
	return nil
}

// ExpectAttribute asserts the element matching selector has attribute name equal to value.
func (a *EmployeeManagementApp) ExpectAttribute(selector, name, value string) error {
	if err := a.expect.Locator(a.page.Locator(selector)).ToHaveAttribute(name, value); err != nil {
		return fmt.Errorf("%s[%s] != %q: %w", selector, name, value, err)
	}
	return nil
}

// ExpectClass asserts the class attribute of the element matching selector matches pattern.
func (a *EmployeeManagementApp) ExpectClass(selector string, pattern *regexp.Regexp) error {
	if err := a.expect.Locator(a.page.Locator(selector)).ToHaveClass(pattern); err != nil {
		return fmt.Errorf("%s class does not match %s: %w", selector, pattern, err)
	}
	return nil
}

func (a *EmployeeManagementApp) ExpectFocused(selector string) error {
	if err := a.expect.Locator(a.page.Locator(selector)).ToBeFocused(); err != nil {
		return fmt.Errorf("%s not focused: %w", selector, err)
	}
	return nil
}

// ExpectContainsText asserts the first element matching selector contains text.
func (a *EmployeeManagementApp) ExpectContainsText(selector, text string) error {
	if err := a.expect.Locator(a.page.Locator(selector).First()).ToContainText(text); err != nil {
		return fmt.Errorf("%s does not contain %q: %w", selector, text, err)
	}
	return nil
}

// PressKey sends a key press to the focused element.
func (a *EmployeeManagementApp) PressKey(key string) error {
	if err := a.page.Keyboard().Press(key); err != nil {
		return fmt.Errorf("failed to press %s: %w", key, err)
	}
	return nil
}

func (a *EmployeeManagementApp) ExpectEmployeeInList(name string) error {
	return a.ExpectVisible(helpers.Text(name))
}

// ExpectEmployeeNotInList asserts no visible element shows name.
func (a *EmployeeManagementApp) ExpectEmployeeNotInList(name string) error {
	visible := a.page.Locator(helpers.Text(name) + " >> visible=true")
	if err := a.expect.Locator(visible).ToHaveCount(0); err != nil {
		return fmt.Errorf("%q still visible: %w", name, err)
	}
	return nil
}

func (a *EmployeeManagementApp) ExpectValidationError(message string) error {
	return a.ExpectVisible(helpers.Text(message))
}
