package helpers

import (
	"fmt"
	"strings"
)

// Test ids rendered by the employee management application.
const (
	UsernameField       = "username-field"
	PasswordField       = "password-field"
	LoginButton         = "login-button"
	LogoutButton        = "logout-button"
	EmployeeList        = "employee-list"
	EmployeeGrid        = "employee-grid"
	EmployeeForm        = "employee-form"
	AddEmployeeButton   = "add-employee-button"
	SaveEmployeeButton  = "save-employee-button"
	ExportButton        = "export-employees-button"
	ConfirmDelete       = "confirm-delete"
	NameField           = "name-field"
	EmailField          = "email-field"
	PhoneField          = "phone-field"
	SearchField         = "search-field"
	MobileMenuButton    = "mobile-menu-button"
	MobileNavMenu       = "mobile-nav-menu"
	MobileLayout        = "mobile-layout"
	UseLocationButton   = "use-location-button"
	employeeItemPrefix  = "employee-item-"
	employeeEditPrefix  = "edit-employee-"
	employeeDelPrefix   = "delete-employee-"
	employeePhotoPrefix = "employee-photo-"
)

// TestID selects any element carrying the given data-testid.
func TestID(id string) string {
	return fmt.Sprintf(`[data-testid="%s"]`, id)
}

// InputTestID selects an <input> carrying the given data-testid.
func InputTestID(id string) string {
	return "input" + TestID(id)
}

// ButtonTestID selects a <button> carrying the given data-testid.
func ButtonTestID(id string) string {
	return "button" + TestID(id)
}

// Text selects by visible text using the playwright text engine.
func Text(s string) string {
	return "text=" + s
}

func EditEmployeeButton(id string) string {
	return ButtonTestID(employeeEditPrefix + id)
}

func DeleteEmployeeButton(id string) string {
	return ButtonTestID(employeeDelPrefix + id)
}

func EmployeeItem(id string) string {
	return TestID(employeeItemPrefix + id)
}

func EmployeePhoto(id string) string {
	return "img" + TestID(employeePhotoPrefix+id)
}

// AnyEmployeeItem matches every rendered list entry.
func AnyEmployeeItem() string {
	return fmt.Sprintf(`[data-testid^="%s"]`, employeeItemPrefix)
}

// EmployeeIDFromTestID extracts "<id>" from "employee-item-<id>".
func EmployeeIDFromTestID(testID string) (string, error) {
	if !strings.HasPrefix(testID, employeeItemPrefix) {
		return "", fmt.Errorf("test id %q is not an employee item", testID)
	}
	id := strings.TrimPrefix(testID, employeeItemPrefix)
	if id == "" {
		return "", fmt.Errorf("test id %q has no employee id", testID)
	}
	return id, nil
}
