package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/service"
)

// ReservationHandler exposes bookings and provider sync.
type ReservationHandler struct {
	Reservations *service.ReservationService
	Sync         *service.SyncTracker
	Now          func() time.Time
}

func NewReservationHandler(res *service.ReservationService, sync *service.SyncTracker) *ReservationHandler {
	return &ReservationHandler{Reservations: res, Sync: sync, Now: time.Now}
}

type reservationView struct {
	model.Reservation
	AtRisk bool `json:"at_risk"`
}

func (h *ReservationHandler) views(rs []model.Reservation) []reservationView {
	now := h.Now()
	out := make([]reservationView, 0, len(rs))
	for _, r := range rs {
		out = append(out, reservationView{Reservation: r, AtRisk: service.AtRisk(r, now)})
	}
	return out
}

// List handles GET /v1/reservations.  With ?date=YYYY-MM-DD only that
// calendar day is returned, interpreted in ?tz (an IANA zone, default the server zone).
func (h *ReservationHandler) List(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		return list(c, h.views(h.Reservations.List()))
	}
	loc := time.Local
	if tz := c.QueryParam("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tz"})
		}
		loc = l
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
	}
	return list(c, h.views(h.Reservations.ForDate(day)))
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	r, err := h.Reservations.Reservation(c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, reservationView{Reservation: r, AtRisk: service.AtRisk(r, h.Now())})
}

// Create handles POST /v1/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	var in service.ReservationInput
	if err := c.Bind(&in); err != nil {
		return badBody(c)
	}
	r, err := h.Reservations.Create(c.Request().Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

// Update handles PUT /v1/reservations/:id.
func (h *ReservationHandler) Update(c echo.Context) error {
	var in service.ReservationInput
	if err := c.Bind(&in); err != nil {
		return badBody(c)
	}
	r, applied, err := h.Reservations.Update(c.Param("id"), in)
	return result(c, r, applied, err)
}

type seatReq struct {
	TableID string `json:"table_id"`
}

// Seat handles POST /v1/reservations/:id/seat.  An empty table_id seats the
// party at a new table.
func (h *ReservationHandler) Seat(c echo.Context) error {
	var req seatReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	r, o, applied, err := h.Reservations.Seat(c.Request().Context(), c.Param("id"), req.TableID)
	if err != nil || !applied {
		return result(c, r, applied, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": r, "order": o})
}

// Cancel handles POST /v1/reservations/:id/cancel.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	r, applied, err := h.Reservations.Cancel(c.Request().Context(), c.Param("id"))
	return result(c, r, applied, err)
}

// NoShow handles POST /v1/reservations/:id/no-show.
func (h *ReservationHandler) NoShow(c echo.Context) error {
	r, applied, err := h.Reservations.MarkNoShow(c.Request().Context(), c.Param("id"))
	return result(c, r, applied, err)
}

type syncStatus struct {
	Kind     string     `json:"kind"`
	Syncing  bool       `json:"syncing"`
	LastSync *time.Time `json:"last_sync"`
}

func (h *ReservationHandler) status(c echo.Context) (syncStatus, error) {
	last, err := h.Sync.LastSync(c.Request().Context())
	return syncStatus{Kind: h.Sync.Kind(), Syncing: h.Sync.Syncing(), LastSync: last}, err
}

// SyncStatus handles GET /v1/reservations/sync.
func (h *ReservationHandler) SyncStatus(c echo.Context) error {
	st, err := h.status(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// RunSync handles POST /v1/reservations/sync.
func (h *ReservationHandler) RunSync(c echo.Context) error {
	if err := h.Sync.Sync(c.Request().Context()); err != nil {
		if errors.Is(err, service.ErrSyncDisabled) {
			return fail(c, err)
		}
		c.Logger().Warnf("reservation sync: %v", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "sync failed"})
	}
	return h.SyncStatus(c)
}
