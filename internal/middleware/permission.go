package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/permission"
	q "github.com/iliyamo/restaurant-pos/internal/queue"
	"github.com/iliyamo/restaurant-pos/internal/session"
)

// Permissions returns the set resolved for this request by RequireSession.
func Permissions(c echo.Context) *permission.Set {
	s, _ := c.Get("perms").(*permission.Set)
	return s
}

// RequireSession rejects requests whose employee has no live session (never
// signed in, signed out, or idle past the timeout), records activity, and
// resolves the employee's permissions for downstream handlers.  The request
// context carries the employee as the lifecycle event actor.  It must run
// after JWTAuth.
func RequireSession(mgr *session.Manager, src session.PermissionSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := EmployeeID(c)
			st, ok := mgr.Touch(id)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
			}
			perms := st.Permissions(src)
			if perms == nil {
				mgr.SignOut(id)
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "employee no longer exists"})
			}
			c.Set("session", st)
			c.Set("perms", perms)
			c.SetRequest(c.Request().WithContext(q.WithActor(c.Request().Context(), id)))
			return next(c)
		}
	}
}

// RequirePermission aborts with 403 unless the resolved permissions grant
// at least one of keys.
func RequirePermission(keys ...permission.Key) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			perms := Permissions(c)
			for _, k := range keys {
				if perms.Has(k) {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
}
