package helpers

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/staffhub/employee-e2e/tests/e2e/config"
)

// HomeHeading is the text shown once a user is logged in.
const HomeHeading = "Employee Management"

// Credentials is a username/password pair used for one login attempt.
type Credentials struct {
	Username string
	Password string
}

// DefaultCredentials returns the account that is expected to log in successfully.
func DefaultCredentials(cfg *config.TestConfig) Credentials {
	return Credentials{Username: cfg.Credentials.Username, Password: cfg.Credentials.Password}
}

// InvalidCredentials returns an account the application must reject.
func InvalidCredentials(cfg *config.TestConfig) Credentials {
	return Credentials{Username: cfg.Credentials.InvalidUsername, Password: cfg.Credentials.InvalidPassword}
}

// AuthHelper drives the login form on any page, independent of a BrowserHelper,
// so additional contexts (concurrent users, devices) can reuse it.
type AuthHelper struct {
	timeouts config.TimeoutConfig
}

// NewAuthHelper creates a new authentication helper
func NewAuthHelper(cfg *config.TestConfig) *AuthHelper {
	return &AuthHelper{timeouts: cfg.Timeouts}
}

// SubmitLogin fills the login form and clicks the login button without waiting
// for the outcome.
func (a *AuthHelper) SubmitLogin(page playwright.Page, creds Credentials) error {
	username := page.Locator(InputTestID(UsernameField))
	if err := username.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(config.Ms(a.timeouts.Navigation)),
	}); err != nil {
		return fmt.Errorf("username field not found: %w", err)
	}

	if err := username.Fill(creds.Username); err != nil {
		return fmt.Errorf("failed to fill username: %w", err)
	}
	if err := page.Locator(InputTestID(PasswordField)).Fill(creds.Password); err != nil {
		return fmt.Errorf("failed to fill password: %w", err)
	}
	if err := page.Locator(ButtonTestID(LoginButton)).Click(); err != nil {
		return fmt.Errorf("failed to click login: %w", err)
	}
	return nil
}

// LoginAndWait submits the form and waits for the home heading.
func (a *AuthHelper) LoginAndWait(page playwright.Page, creds Credentials) error {
	if err := a.SubmitLogin(page, creds); err != nil {
		return err
	}
	if _, err := page.WaitForSelector(Text(HomeHeading), playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(config.Ms(a.timeouts.Action)),
	}); err != nil {
		return fmt.Errorf("home screen did not appear after login as %s: %w", creds.Username, err)
	}
	return nil
}

// TapLogin is the touch variant of SubmitLogin used for mobile device emulation.
func (a *AuthHelper) TapLogin(page playwright.Page, creds Credentials) error {
	username := InputTestID(UsernameField)
	password := InputTestID(PasswordField)

	if err := page.Locator(username).Tap(); err != nil {
		return fmt.Errorf("failed to tap username: %w", err)
	}
	if err := page.Locator(username).Fill(creds.Username); err != nil {
		return fmt.Errorf("failed to fill username: %w", err)
	}
	if err := page.Locator(password).Tap(); err != nil {
		return fmt.Errorf("failed to tap password: %w", err)
	}
	if err := page.Locator(password).Fill(creds.Password); err != nil {
		return fmt.Errorf("failed to fill password: %w", err)
	}
	if err := page.Locator(ButtonTestID(LoginButton)).Tap(); err != nil {
		return fmt.Errorf("failed to tap login: %w", err)
	}
	if _, err := page.WaitForSelector(Text(HomeHeading), playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(config.Ms(a.timeouts.Action)),
	}); err != nil {
		return fmt.Errorf("home screen did not appear after tap login: %w", err)
	}
	return nil
}
