package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/countdown"
	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/service"
)

// WaitlistHandler exposes the walk-in waitlist and its notify countdown.
type WaitlistHandler struct {
	Waitlist *service.WaitlistService
	Tick     time.Duration
}

func NewWaitlistHandler(w *service.WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{Waitlist: w, Tick: time.Second}
}

type waitlistView struct {
	model.WaitlistEntry
	Countdown        string `json:"countdown,omitempty"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

func (h *WaitlistHandler) view(e model.WaitlistEntry, now time.Time) waitlistView {
	v := waitlistView{WaitlistEntry: e}
	if rem := h.Waitlist.Remaining(e, now); e.Status == model.WaitlistNotified {
		v.Countdown = countdown.Format(rem)
		v.RemainingSeconds = int(rem / time.Second)
	}
	return v
}

// List handles GET /v1/waitlist.  ?active=false includes seated and
// removed entries.
func (h *WaitlistHandler) List(c echo.Context) error {
	active := true
	if v := c.QueryParam("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid active flag"})
		}
		active = b
	}
	now := h.Waitlist.Clock().Now()
	entries := h.Waitlist.List(active)
	out := make([]waitlistView, 0, len(entries))
	for _, e := range entries {
		out = append(out, h.view(e, now))
	}
	return list(c, out)
}

// Get handles GET /v1/waitlist/:id.
func (h *WaitlistHandler) Get(c echo.Context) error {
	e, err := h.Waitlist.Entry(c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, h.view(e, h.Waitlist.Clock().Now()))
}

type addWaitlistReq struct {
	CustomerName string `json:"customer_name"`
	PartySize    int    `json:"party_size"`
	QuotedMins   int    `json:"quoted_wait_minutes"`
}

// Add handles POST /v1/waitlist.
func (h *WaitlistHandler) Add(c echo.Context) error {
	var req addWaitlistReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	e, err := h.Waitlist.Add(c.Request().Context(), req.CustomerName, req.PartySize, req.QuotedMins)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *WaitlistHandler) transition(c echo.Context, fn func(id string) (model.WaitlistEntry, bool, error)) error {
	e, applied, err := fn(c.Param("id"))
	if err != nil || !applied {
		return result(c, e, applied, err)
	}
	return c.JSON(http.StatusOK, h.view(e, h.Waitlist.Clock().Now()))
}

// Notify handles POST /v1/waitlist/:id/notify.
func (h *WaitlistHandler) Notify(c echo.Context) error {
	return h.transition(c, func(id string) (model.WaitlistEntry, bool, error) {
		return h.Waitlist.Notify(c.Request().Context(), id)
	})
}

// Seat handles POST /v1/waitlist/:id/seat.
func (h *WaitlistHandler) Seat(c echo.Context) error {
	return h.transition(c, func(id string) (model.WaitlistEntry, bool, error) {
		return h.Waitlist.Seat(c.Request().Context(), id)
	})
}

// Remove handles POST /v1/waitlist/:id/remove.
func (h *WaitlistHandler) Remove(c echo.Context) error {
	return h.transition(c, func(id string) (model.WaitlistEntry, bool, error) {
		return h.Waitlist.Remove(c.Request().Context(), id)
	})
}

// Countdown handles GET /v1/waitlist/:id/countdown as a server-sent event
// stream: one "tick" event per second carrying MM:SS, ending with 00:00.
// The stream closes when the client disconnects.
func (h *WaitlistHandler) Countdown(c echo.Context) error {
	e, err := h.Waitlist.Entry(c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	deadline, ok := h.Waitlist.Deadline(e)
	if !ok {
		return c.JSON(http.StatusConflict, echo.Map{"error": "entry is not notified"})
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	ticks := make(chan time.Duration, 1)
	stop := make(chan struct{})
	t := countdown.Start(c.Request().Context(), h.Waitlist.Clock(), deadline, h.Tick, func(rem time.Duration) {
		select {
		case ticks <- rem:
		case <-stop:
		}
	})
	defer func() {
		close(stop)
		t.Stop()
	}()

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case rem := <-ticks:
			data, _ := json.Marshal(echo.Map{"id": e.ID, "countdown": countdown.Format(rem), "remaining_seconds": int(rem / time.Second)})
			if _, err := fmt.Fprintf(res, "event: tick\ndata: %s\n\n", data); err != nil {
				return nil
			}
			res.Flush()
			if rem == 0 {
				return nil
			}
		}
	}
}
