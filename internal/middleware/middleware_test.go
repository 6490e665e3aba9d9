package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/config"
	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/permission"
	q "github.com/iliyamo/restaurant-pos/internal/queue"
	"github.com/iliyamo/restaurant-pos/internal/session"
	"github.com/iliyamo/restaurant-pos/internal/utils"
)

func serve(e *echo.Echo, token string) int {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func ok(c echo.Context) error { return c.String(http.StatusOK, EmployeeID(c)) }

func TestJWTAuth(t *testing.T) {
	e := echo.New()
	e.GET("/x", ok, JWTAuth("k1"))

	good, _ := utils.NewAccessToken("k1", "emp-1", "role-server", 5)
	wrong, _ := utils.NewAccessToken("k2", "emp-1", "role-server", 5)
	expired, _ := utils.NewAccessToken("k1", "emp-1", "role-server", -1)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", wrong.Token, http.StatusUnauthorized},
		{"expired", expired.Token, http.StatusUnauthorized},
		{"valid", good.Token, http.StatusOK},
	}
	for _, tt := range tests {
		if got := serve(e, tt.token); got != tt.want {
			t.Errorf("%s: got %d want %d", tt.name, got, tt.want)
		}
	}
}

type roleSource struct{ role model.Role }

func (s roleSource) Permissions(string) *permission.Set {
	return permission.Resolve(&s.role, model.Plugins{})
}

func TestRequireSessionAndPermission(t *testing.T) {
	mgr := session.NewManager(time.Hour, nil, nil)
	src := roleSource{role: model.Role{Permissions: map[string]bool{string(permission.ViewPOS): true}}}

	e := echo.New()
	e.GET("/x", ok, JWTAuth("k"), RequireSession(mgr, src), RequirePermission(permission.ViewPOS))
	e.GET("/y", ok, JWTAuth("k"), RequireSession(mgr, src), RequirePermission(permission.VoidOrders))

	tok, _ := utils.NewAccessToken("k", "emp-1", "r", 5)
	if got := serve(e, tok.Token); got != http.StatusUnauthorized {
		t.Fatalf("no session: %d", got)
	}
	mgr.SignIn(model.Employee{ID: "emp-1"})
	if got := serve(e, tok.Token); got != http.StatusOK {
		t.Fatalf("granted: %d", got)
	}

	var actor string
	e.GET("/actor", func(c echo.Context) error {
		actor = q.ActorFrom(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}, JWTAuth("k"), RequireSession(mgr, src))
	areq := httptest.NewRequest(http.MethodGet, "/actor", nil)
	areq.Header.Set("Authorization", "Bearer "+tok.Token)
	e.ServeHTTP(httptest.NewRecorder(), areq)
	if actor != "emp-1" {
		t.Fatalf("actor = %q", actor)
	}

	req := httptest.NewRequest(http.MethodGet, "/y", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("missing key: %d", rec.Code)
	}
}

func TestRedisMiddlewaresPassThroughWithoutClient(t *testing.T) {
	e := echo.New()
	e.GET("/x", ok,
		NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil),
		NewRedisCache(config.CacheConfig{Enabled: true}, nil),
	)
	for i := 0; i < 3; i++ {
		if got := serve(e, ""); got != http.StatusOK {
			t.Fatalf("request %d: %d", i, got)
		}
	}
}

func TestRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/orders/1/void", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/orders/:id/void")
	c.Set("employee_id", "emp-9")

	tests := map[string]string{
		"ip":                "rl:ip:10.0.0.7",
		"employee":          "rl:emp:emp-9",
		"ip_route":          "rl:ip:10.0.0.7:route:POST /v1/orders/:id/void",
		"":                  "rl:ip:10.0.0.7:emp:emp-9",
		"ip_employee_route": "rl:ip:10.0.0.7:emp:emp-9:route:POST /v1/orders/:id/void",
	}
	for strategy, want := range tests {
		got := rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}, c)
		if got != want {
			t.Errorf("%q: got %q want %q", strategy, got, want)
		}
	}
}
