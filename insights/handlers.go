package insights

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/soulfiremc/docsite/logging"
)

//go:embed script.js
var script []byte

// Script returns the beacon script served at /_vercel/insights/script.js.
func Script() []byte { return script }

// Beacon is the JSON body posted by the beacon script.
type Beacon struct {
	Origin    string         `json:"o"`
	Referrer  string         `json:"r"`
	Event     string         `json:"en"`
	Data      map[string]any `json:"ed"`
	Timestamp int64          `json:"ts"`
}

// Input validation limits for beacons.
const (
	maxOriginLen   = 2048
	maxReferrerLen = 2048
	maxEventLen    = 255
)

func validateBeacon(b *Beacon) error {
	if b.Origin == "" {
		return fmt.Errorf("missing origin")
	}
	if len(b.Origin) > maxOriginLen {
		return fmt.Errorf("origin exceeds maximum length of %d", maxOriginLen)
	}
	if len(b.Referrer) > maxReferrerLen {
		return fmt.Errorf("referrer exceeds maximum length of %d", maxReferrerLen)
	}
	if len(b.Event) > maxEventLen {
		return fmt.Errorf("event exceeds maximum length of %d", maxEventLen)
	}
	return nil
}

// Handler accepts beacons and stores them.
type Handler struct {
	store    *Store
	salt     string
	siteHost string
	now      func() time.Time
}

// NewHandler creates a beacon handler. siteHost is used to drop same-site
// referrers.
func NewHandler(ctx context.Context, store *Store, siteHost string) (*Handler, error) {
	salt, err := store.Salt(ctx)
	if err != nil {
		return nil, err
	}
	return &Handler{store: store, salt: salt, siteHost: siteHost, now: time.Now}, nil
}

// Register mounts the beacon endpoints on g. Collection is rate-limited to
// one request per second per IP with a burst of 30.
func (h *Handler) Register(g *echo.Group) {
	limiter := middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(1),
			Burst:     30,
			ExpiresIn: 3 * time.Minute,
		}),
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.NoContent(http.StatusTooManyRequests)
		},
	})

	g.GET("/script.js", h.Script)
	g.POST("/view", h.View, limiter)
	g.POST("/event", h.Event, limiter)
}

// Script serves the beacon script.
func (h *Handler) Script(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return c.Blob(http.StatusOK, "application/javascript; charset=utf-8", script)
}

// View records a page view.
func (h *Handler) View(c echo.Context) error {
	return h.collect(c, false)
}

// Event records a custom event.
func (h *Handler) Event(c echo.Context) error {
	return h.collect(c, true)
}

func (h *Handler) collect(c echo.Context, event bool) error {
	req := c.Request()
	if req.Header.Get("DNT") == "1" {
		return c.NoContent(http.StatusNoContent)
	}

	var b Beacon
	if err := c.Bind(&b); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request")
	}
	if err := validateBeacon(&b); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request")
	}
	if event && b.Event == "" {
		return c.String(http.StatusBadRequest, "Invalid request")
	}

	ua := req.UserAgent()
	if IsBot(ua) {
		return c.NoContent(http.StatusNoContent)
	}

	now := h.now().UTC()
	v := &View{
		VisitorID: VisitorID(h.salt, c.RealIP(), ua, now),
		Path:      PathOf(b.Origin),
		Referrer:  ReferrerHost(b.Referrer, h.siteHost),
		Device:    DeviceOf(ua),
		Timestamp: now,
	}
	if event {
		v.Event = b.Event
	}
	if err := h.store.SaveView(req.Context(), v); err != nil {
		log := logging.WithComponent("insights")
		log.Error().Err(err).Str("path", v.Path).Msg("save view failed")
	}
	return c.NoContent(http.StatusNoContent)
}
