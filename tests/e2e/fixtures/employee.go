// Package fixtures builds the data and files scenarios feed into the application.
//
// Every record carries a run-unique suffix so scenarios never depend on what an
// earlier test left in the shared backend.
package fixtures

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Employee is the record the employee form accepts. ID is empty until the
// application assigns one and a scenario resolves it from the rendered list.
type Employee struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Photo string `json:"photo,omitempty"`
}

// NewEmployee returns an employee whose name starts with label.
func NewEmployee(label string) Employee {
	u := uuid.New()
	suffix := strings.SplitN(u.String(), "-", 2)[0]
	return Employee{
		Name:  fmt.Sprintf("%s %s", label, suffix),
		Email: fmt.Sprintf("%s.%s@test.com", slug(label), suffix),
		Phone: fmt.Sprintf("+1%09d", binary.BigEndian.Uint32(u[4:8])%1_000_000_000),
	}
}

// Employees returns n employees named "<label> <i> <run>" sharing one run suffix,
// so a search for "<label>" matches all of them and "<label> <i> " exactly one.
func Employees(label string, n int) []Employee {
	run := strings.SplitN(uuid.NewString(), "-", 2)[0]
	out := make([]Employee, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Employee{
			Name:  fmt.Sprintf("%s %d %s", label, i, run),
			Email: fmt.Sprintf("%s%d.%s@test.com", slug(label), i, run),
			Phone: fmt.Sprintf("+123456%04d", i),
		})
	}
	return out
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '.':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), ".") {
				b.WriteByte('.')
			}
		}
	}
	out := strings.TrimSuffix(b.String(), ".")
	if out == "" {
		return "employee"
	}
	return out
}
