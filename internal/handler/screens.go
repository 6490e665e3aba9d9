package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/middleware"
	"github.com/iliyamo/restaurant-pos/internal/permission"
	"github.com/iliyamo/restaurant-pos/internal/session"
	"github.com/iliyamo/restaurant-pos/internal/view"
)

// ScreenHandler resolves what a terminal should display.
type ScreenHandler struct {
	Router   *view.Router
	Sessions *session.Manager
	Perms    session.PermissionSource
}

func NewScreenHandler(r *view.Router, sessions *session.Manager, perms session.PermissionSource) *ScreenHandler {
	return &ScreenHandler{Router: r, Sessions: sessions, Perms: perms}
}

type routeResp struct {
	Kind   string       `json:"kind"`
	Screen view.Screen  `json:"screen,omitempty"`
	Reason string       `json:"reason,omitempty"`
	View   view.View    `json:"view"`
	Sub    view.SubView `json:"sub_view,omitempty"`
}

func routed(r view.Result, v view.View, sub view.SubView) routeResp {
	return routeResp{Kind: r.Kind.String(), Screen: r.Screen, Reason: r.Reason, View: v, Sub: sub}
}

// Public handles GET /v1/screens/:view for terminals without a session.
// Protected views answer with a sign-in redirect.
func (h *ScreenHandler) Public(c echo.Context) error {
	v := view.View(c.Param("view"))
	sub := view.SubView(c.QueryParam("sub"))
	return c.JSON(http.StatusOK, routed(h.Router.Route(v, sub, nil), v, sub))
}

type navigateReq struct {
	View view.View    `json:"view"`
	Sub  view.SubView `json:"sub_view"`
}

// Navigate handles POST /v1/session/navigate.  The navigation is recorded
// even when the result is a denial, matching what the terminal shows.
func (h *ScreenHandler) Navigate(c echo.Context) error {
	var req navigateReq
	if err := c.Bind(&req); err != nil || req.View == "" {
		return badBody(c)
	}
	st, ok := h.Sessions.Navigate(middleware.EmployeeID(c), req.View, req.Sub)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}
	return c.JSON(http.StatusOK, routed(st.Screen(h.Router, h.Perms), st.View, st.SubView()))
}

// Current handles GET /v1/session/screen.
func (h *ScreenHandler) Current(c echo.Context) error {
	st, ok := h.Sessions.Get(middleware.EmployeeID(c))
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}
	return c.JSON(http.StatusOK, routed(st.Screen(h.Router, h.Perms), st.View, st.SubView()))
}

type permInfo struct {
	Key    permission.Key    `json:"key"`
	Plugin permission.Plugin `json:"plugin,omitempty"`
}

// Permissions handles GET /v1/catalog/permissions.
func (h *ScreenHandler) Permissions(c echo.Context) error {
	keys := permission.Keys()
	out := make([]permInfo, 0, len(keys))
	for _, k := range keys {
		out = append(out, permInfo{Key: k, Plugin: permission.Owner(k)})
	}
	return list(c, out)
}

// Views handles GET /v1/catalog/views.
func (h *ScreenHandler) Views(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Router.Routes())
}
