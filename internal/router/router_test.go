package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/config"
	"github.com/iliyamo/restaurant-pos/internal/countdown"
	"github.com/iliyamo/restaurant-pos/internal/handler"
	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/permission"
	"github.com/iliyamo/restaurant-pos/internal/repository"
	"github.com/iliyamo/restaurant-pos/internal/service"
	"github.com/iliyamo/restaurant-pos/internal/session"
	"github.com/iliyamo/restaurant-pos/internal/view"
)

const secret = "test-secret"

type app struct {
	e      *echo.Echo
	floors *service.FloorService
	staff  *service.StaffService
}

func newApp(t *testing.T, plugins model.Plugins) *app {
	t.Helper()
	deps := service.Deps{Store: repository.NewStore(model.Floor{ID: "floor-1", Name: "Main"})}
	staff := service.NewStaffService(deps, 4)
	if err := staff.SeedDefaults(plugins); err != nil {
		t.Fatal(err)
	}
	for _, e := range []struct{ id, role string }{
		{"admin", permission.RoleAdmin},
		{"server", permission.RoleServer},
		{"cook", permission.RoleKitchen},
	} {
		if _, err := staff.CreateEmployee(e.id, e.id, e.role, "1234"); err != nil {
			t.Fatal(err)
		}
	}
	clock := countdown.SystemClock{}
	sessions := session.NewManager(time.Hour, clock, nil)
	res := service.NewReservationService(deps)
	floors := service.NewFloorService(deps)
	cfg := config.Config{JWTSecret: secret, AccessTTLMin: 5}

	e := echo.New()
	Register(e, Handlers{
		Auth:         handler.NewAuthHandler(cfg, staff, sessions),
		Screens:      handler.NewScreenHandler(view.NewRouter(), sessions, staff),
		Orders:       handler.NewOrderHandler(service.NewOrderService(deps)),
		Reservations: handler.NewReservationHandler(res, service.NewSyncTracker(nil, nil, clock)),
		Waitlist:     handler.NewWaitlistHandler(service.NewWaitlistService(deps, nil)),
		Floors:       handler.NewFloorHandler(floors),
		Staff:        handler.NewStaffHandler(staff),
		Events:       handler.NewEventHandler(nil),
	}, Guards{JWTSecret: secret, Sessions: sessions, Perms: staff})
	return &app{e: e, floors: floors, staff: staff}
}

func (a *app) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	out := map[string]any{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec.Code, out
}

func (a *app) login(t *testing.T, id string) string {
	t.Helper()
	code, body := a.do(t, http.MethodPost, "/v1/auth/login", "", echo.Map{"employee_id": id, "pin": "1234"})
	if code != http.StatusOK {
		t.Fatalf("login %s: %d %v", id, code, body)
	}
	return body["access"].(map[string]any)["token"].(string)
}

func TestLoginRejectsBadPIN(t *testing.T) {
	a := newApp(t, model.Plugins{})
	code, _ := a.do(t, http.MethodPost, "/v1/auth/login", "", echo.Map{"employee_id": "server", "pin": "9999"})
	if code != http.StatusUnauthorized {
		t.Fatalf("code = %d", code)
	}
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	a := newApp(t, model.Plugins{})
	if code, _ := a.do(t, http.MethodGet, "/v1/orders", "", nil); code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", code)
	}
	tok := a.login(t, "server")
	if code, _ := a.do(t, http.MethodGet, "/v1/orders", tok, nil); code != http.StatusOK {
		t.Fatalf("with session: %d", code)
	}
	if code, _ := a.do(t, http.MethodPost, "/v1/auth/logout", tok, nil); code != http.StatusNoContent {
		t.Fatalf("logout: %d", code)
	}
	if code, _ := a.do(t, http.MethodGet, "/v1/orders", tok, nil); code != http.StatusUnauthorized {
		t.Fatalf("after logout: %d", code)
	}
}

func TestTableLifecycleOverHTTP(t *testing.T) {
	a := newApp(t, model.Plugins{})
	tb, _ := a.floors.CreateTable("floor-1", "T1")
	tok := a.login(t, "server")

	code, order := a.do(t, http.MethodPost, "/v1/tables/"+tb.ID+"/open", tok, echo.Map{"customer_name": "Smith"})
	if code != http.StatusOK {
		t.Fatalf("open: %d %v", code, order)
	}
	id := order["id"].(string)

	steps := []struct {
		path string
		body any
		want int
	}{
		{"/v1/orders/" + id + "/items", echo.Map{"name": "Soup", "quantity": 2, "price_cents": 750}, http.StatusOK},
		{"/v1/orders/" + id + "/served", nil, http.StatusConflict},
		{"/v1/orders/" + id + "/kitchen", nil, http.StatusOK},
		{"/v1/orders/" + id + "/served", nil, http.StatusOK},
		{"/v1/orders/" + id + "/payments", echo.Map{"amount_cents": 1500}, http.StatusOK},
		{"/v1/orders/" + id + "/void", nil, http.StatusForbidden},
	}
	for _, s := range steps {
		if code, body := a.do(t, http.MethodPost, s.path, tok, s.body); code != s.want {
			t.Fatalf("POST %s: %d want %d (%v)", s.path, code, s.want, body)
		}
	}

	_, table := a.do(t, http.MethodGet, "/v1/tables/"+tb.ID, tok, nil)
	if table["status"] != string(model.TableAvailable) || table["customer_name"] != nil {
		t.Fatalf("table after payment = %v", table)
	}
}

func TestTransferOverHTTP(t *testing.T) {
	a := newApp(t, model.Plugins{})
	src, _ := a.floors.CreateTable("floor-1", "A")
	busy, _ := a.floors.CreateTable("floor-1", "C")
	free, _ := a.floors.CreateTable("floor-1", "D")
	tok := a.login(t, "server")
	a.do(t, http.MethodPost, "/v1/tables/"+src.ID+"/open", tok, nil)
	a.do(t, http.MethodPost, "/v1/tables/"+busy.ID+"/open", tok, nil)

	if code, _ := a.do(t, http.MethodPost, "/v1/tables/"+src.ID+"/transfer", tok, echo.Map{"target_table_id": busy.ID}); code != http.StatusConflict {
		t.Fatalf("onto occupied: %d", code)
	}
	if code, _ := a.do(t, http.MethodPost, "/v1/tables/"+src.ID+"/transfer", tok, echo.Map{"target_table_id": free.ID}); code != http.StatusOK {
		t.Fatalf("onto available: %d", code)
	}
	if code, _ := a.do(t, http.MethodGet, "/v1/tables/"+free.ID+"/order", tok, nil); code != http.StatusOK {
		t.Fatalf("order not on target: %d", code)
	}
}

func TestScreensAndPluginGating(t *testing.T) {
	a := newApp(t, model.Plugins{})

	_, body := a.do(t, http.MethodGet, "/v1/screens/kitchen-display", "", nil)
	if body["kind"] != "screen" {
		t.Fatalf("public screen = %v", body)
	}
	_, body = a.do(t, http.MethodGet, "/v1/screens/pos", "", nil)
	if body["kind"] != "login" {
		t.Fatalf("protected without session = %v", body)
	}

	cook := a.login(t, "cook")
	_, body = a.do(t, http.MethodPost, "/v1/session/navigate", cook, echo.Map{"view": "pos"})
	if body["kind"] != "denied" {
		t.Fatalf("cook on pos = %v", body)
	}

	admin := a.login(t, "admin")
	if code, _ := a.do(t, http.MethodGet, "/v1/waitlist", admin, nil); code != http.StatusForbidden {
		t.Fatalf("waitlist with plugin off: %d", code)
	}
	if code, _ := a.do(t, http.MethodPut, "/v1/plugins", admin, echo.Map{"waitlist": true}); code != http.StatusOK {
		t.Fatalf("enable plugin: %d", code)
	}
	if code, _ := a.do(t, http.MethodGet, "/v1/waitlist", admin, nil); code != http.StatusOK {
		t.Fatalf("waitlist with plugin on: %d", code)
	}
	_, body = a.do(t, http.MethodPost, "/v1/session/navigate", admin, echo.Map{"view": "management", "sub_view": "floors"})
	if body["kind"] != "screen" || body["sub_view"] != "floors" {
		t.Fatalf("admin management = %v", body)
	}
}

func TestDeleteLastFloorOverHTTP(t *testing.T) {
	a := newApp(t, model.Plugins{})
	tok := a.login(t, "admin")
	code, body := a.do(t, http.MethodDelete, "/v1/floors/floor-1", tok, nil)
	if code != http.StatusConflict {
		t.Fatalf("delete last floor: %d %v", code, body)
	}
}

func TestReservationSyncDisabled(t *testing.T) {
	a := newApp(t, model.Plugins{Reservation: true})
	tok := a.login(t, "admin")
	_, body := a.do(t, http.MethodGet, "/v1/reservations/sync", tok, nil)
	if body["kind"] != service.ProviderNone || body["last_sync"] != nil {
		t.Fatalf("sync status = %v", body)
	}
	if code, _ := a.do(t, http.MethodPost, "/v1/reservations/sync", tok, nil); code != http.StatusConflict {
		t.Fatalf("sync with no provider: %d", code)
	}
}
