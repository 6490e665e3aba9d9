package middleware

import "github.com/labstack/echo/v4"

// EmployeeID returns the authenticated employee, or "" for anonymous
// requests.
func EmployeeID(c echo.Context) string {
	if s, ok := c.Get("employee_id").(string); ok {
		return s
	}
	return ""
}

// employeeKey is EmployeeID with a placeholder for anonymous callers, used
// when building rate-limit keys.
func employeeKey(c echo.Context) string {
	if id := EmployeeID(c); id != "" {
		return id
	}
	return "anon"
}
