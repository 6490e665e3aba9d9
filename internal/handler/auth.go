package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/config"
	"github.com/iliyamo/restaurant-pos/internal/countdown"
	"github.com/iliyamo/restaurant-pos/internal/middleware"
	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/service"
	"github.com/iliyamo/restaurant-pos/internal/session"
	"github.com/iliyamo/restaurant-pos/internal/utils"
)

// AuthHandler signs employees in and out of a terminal.
type AuthHandler struct {
	Cfg      config.Config
	Staff    *service.StaffService
	Sessions *session.Manager
}

func NewAuthHandler(cfg config.Config, staff *service.StaffService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Staff: staff, Sessions: sessions}
}

type loginReq struct {
	EmployeeID string `json:"employee_id"`
	PIN        string `json:"pin"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type sessionResp struct {
	Employee    model.Employee  `json:"employee"`
	Session     session.State   `json:"session"`
	Permissions map[string]bool `json:"permissions"`
	TimeoutIn   string          `json:"timeout_in,omitempty"`
}

type loginResp struct {
	Access tokenPart `json:"access"`
	sessionResp
}

func (h *AuthHandler) describe(e model.Employee, st session.State) sessionResp {
	out := sessionResp{Employee: e, Session: st, Permissions: map[string]bool{}}
	for k, v := range st.Permissions(h.Staff).Map() {
		out.Permissions[string(k)] = v
	}
	if h.Sessions.Timeout() > 0 {
		out.TimeoutIn = countdown.Format(h.Sessions.Remaining(st.EmployeeID))
	}
	return out
}

// Login checks the employee PIN, opens a session and returns an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if req.EmployeeID == "" || req.PIN == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "employee_id/pin required"})
	}
	e, err := h.Staff.Authenticate(req.EmployeeID, req.PIN)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, e.ID, e.RoleID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	st := h.Sessions.SignIn(e)
	return c.JSON(http.StatusOK, loginResp{
		Access:      tokenPart{Token: access.Token, Expires: access.Exp},
		sessionResp: h.describe(e, st),
	})
}

// Logout ends the caller's session.  The token stays valid until it
// expires but is refused by RequireSession.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.Sessions.SignOut(middleware.EmployeeID(c))
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller's session, effective permissions and idle timeout.
func (h *AuthHandler) Me(c echo.Context) error {
	id := middleware.EmployeeID(c)
	st, ok := h.Sessions.Get(id)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	}
	emp, err := h.Staff.Employee(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, h.describe(emp, st))
}
