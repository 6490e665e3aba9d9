package router // package router registers the HTTP routes of the POS API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/handler"
	"github.com/iliyamo/restaurant-pos/internal/middleware"
	"github.com/iliyamo/restaurant-pos/internal/session"
)

// Handlers bundles everything the routes dispatch to.
type Handlers struct {
	Auth         *handler.AuthHandler
	Screens      *handler.ScreenHandler
	Orders       *handler.OrderHandler
	Reservations *handler.ReservationHandler
	Waitlist     *handler.WaitlistHandler
	Floors       *handler.FloorHandler
	Staff        *handler.StaffHandler
	Events       *handler.EventHandler
}

// Guards carries what the middleware chain needs.
type Guards struct {
	JWTSecret string
	Sessions  *session.Manager
	Perms     session.PermissionSource
	Cache     echo.MiddlewareFunc
}

// RegisterRoutes registers endpoints that need no session: the health
// check, sign-in, public screens and the static catalog.
func RegisterRoutes(e *echo.Echo, h Handlers, g Guards) {
	e.GET("/healthz", handler.Health)

	e.POST("/v1/auth/login", h.Auth.Login)
	e.GET("/v1/screens/:view", h.Screens.Public)

	catalog := e.Group("/v1/catalog")
	if g.Cache != nil {
		catalog.Use(g.Cache)
	}
	catalog.GET("/permissions", h.Screens.Permissions)
	catalog.GET("/views", h.Screens.Views)

	// Token only: these must work for an idle-expired session too.
	tok := e.Group("/v1", middleware.JWTAuth(g.JWTSecret))
	tok.POST("/auth/logout", h.Auth.Logout)
	tok.GET("/me", h.Auth.Me)
}

// protected returns the /v1 group that requires a token and a live
// session.
func protected(e *echo.Echo, g Guards) *echo.Group {
	return e.Group("/v1",
		middleware.JWTAuth(g.JWTSecret),
		middleware.RequireSession(g.Sessions, g.Perms),
	)
}

// Register wires every route group.
func Register(e *echo.Echo, h Handlers, g Guards) {
	RegisterRoutes(e, h, g)
	p := protected(e, g)
	p.POST("/session/navigate", h.Screens.Navigate)
	p.GET("/session/screen", h.Screens.Current)
	RegisterService(p, h)
	RegisterManagement(p, h)
}
