// Package network installs request interception on a page: aborting, failing
// and rewriting API responses the application under test depends on.
package network

import (
	"errors"
	"fmt"
	"log"

	"github.com/playwright-community/playwright-go"
	"github.com/staffhub/employee-e2e/tests/e2e/fixtures"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// URL patterns of the application's REST API.
const (
	EmployeesAPI = "**/api/employees"
	AnyAPI       = "**/api/**"
)

// ErrNotJSON is returned when a response to be rewritten is not valid JSON.
var ErrNotJSON = errors.New("response body is not valid JSON")

// AbortAll makes every request matching pattern fail at the network level.
func AbortAll(page playwright.Page, pattern string) error {
	if err := page.Route(pattern, func(route playwright.Route) {
		if err := route.Abort(); err != nil {
			log.Printf("[e2e-network] abort %s: %v", route.Request().URL(), err)
		}
	}); err != nil {
		return fmt.Errorf("failed to route %s: %w", pattern, err)
	}
	return nil
}

// FailWith answers every request matching pattern with status and body.
func FailWith(page playwright.Page, pattern string, status int, body string) error {
	if err := page.Route(pattern, func(route playwright.Route) {
		if err := route.Fulfill(playwright.RouteFulfillOptions{
			Status: playwright.Int(status),
			Body:   body,
		}); err != nil {
			log.Printf("[e2e-network] fulfill %s: %v", route.Request().URL(), err)
		}
	}); err != nil {
		return fmt.Errorf("failed to route %s: %w", pattern, err)
	}
	return nil
}

// InjectEmployees lets matching requests reach the server, then appends
// records to the response's data array before the page sees it.
func InjectEmployees(page playwright.Page, pattern string, records ...fixtures.Employee) error {
	if err := page.Route(pattern, func(route playwright.Route) {
		if err := injectInto(route, records); err != nil {
			log.Printf("[e2e-network] inject into %s: %v", route.Request().URL(), err)
			_ = route.Continue()
		}
	}); err != nil {
		return fmt.Errorf("failed to route %s: %w", pattern, err)
	}
	return nil
}

func injectInto(route playwright.Route, records []fixtures.Employee) error {
	response, err := route.Fetch()
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	body, err := response.Body()
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	rewritten, err := AppendEmployees(body, records...)
	if err != nil {
		return err
	}
	headers := response.Headers()
	delete(headers, "content-length")
	headers["content-type"] = "application/json"
	return route.Fulfill(playwright.RouteFulfillOptions{
		Status:  playwright.Int(response.Status()),
		Headers: headers,
		Body:    rewritten,
	})
}

// AppendEmployees appends records to the "data" array of a JSON object body,
// creating the array when it is absent. Other fields are preserved.
func AppendEmployees(body []byte, records ...fixtures.Employee) ([]byte, error) {
	if len(body) == 0 {
		body = []byte("{}")
	}
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, ErrNotJSON
	}

	out := body
	if data := gjson.GetBytes(out, "data"); !data.IsArray() {
		var err error
		if out, err = sjson.SetRawBytes(out, "data", []byte("[]")); err != nil {
			return nil, fmt.Errorf("reset data array: %w", err)
		}
	}
	for _, r := range records {
		var err error
		if out, err = sjson.SetBytes(out, "data.-1", r); err != nil {
			return nil, fmt.Errorf("append %q: %w", r.Name, err)
		}
		if !isNumericID(r.ID) {
			continue
		}
		// the API serves numeric ids; keep the injected record the same type
		idPath := fmt.Sprintf("data.%d.id", gjson.GetBytes(out, "data.#").Int()-1)
		if out, err = sjson.SetRawBytes(out, idPath, []byte(r.ID)); err != nil {
			return nil, fmt.Errorf("set numeric id of %q: %w", r.Name, err)
		}
	}
	return out, nil
}

func isNumericID(id string) bool {
	if id == "" || len(id) > 15 || (len(id) > 1 && id[0] == '0') {
		return false
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
