package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 16 << 10

// Handler handles analytics HTTP requests.
type Handler struct {
	store   *Store
	limiter *ipLimiter
	salt    string
	now     func() time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithRateLimit sets the per-IP collect rate and burst.
func WithRateLimit(limit rate.Limit, burst int) HandlerOption {
	return func(h *Handler) { h.limiter = newIPLimiter(limit, burst) }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) { h.now = now }
}

// NewHandler creates a new analytics handler. By default the collect
// endpoint allows one request per second per IP with bursts of 30, enough
// for the handful of metrics a page load reports.
func NewHandler(ctx context.Context, store *Store, opts ...HandlerOption) (*Handler, error) {
	salt, err := store.Salt(ctx)
	if err != nil {
		return nil, err
	}
	h := &Handler{
		store:   store,
		limiter: newIPLimiter(rate.Every(time.Second), 30),
		salt:    salt,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.limiter.now = h.now
	return h, nil
}

type successResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var okResponse = successResponse{Success: true}

// Collect stores one web-vitals measurement. Browsers send it with
// navigator.sendBeacon, so the body is decoded as JSON whatever the
// Content-Type says.
func (h *Handler) Collect(c echo.Context) error {
	ip := c.RealIP()
	if !h.limiter.allow(ip) {
		return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "Too many requests"})
	}

	if c.Request().Header.Get("DNT") == "1" {
		return c.JSON(http.StatusOK, okResponse)
	}

	var req CollectRequest
	body := http.MaxBytesReader(c.Response(), c.Request().Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid analytics event"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	userAgent := c.Request().UserAgent()
	if IsBot(userAgent) {
		return c.JSON(http.StatusOK, okResponse)
	}

	path := req.Path
	if path == "" {
		path = refererPath(c.Request().Referer())
	}
	rating := req.Rating
	if rating == "" {
		rating = Rate(req.Name, req.Value)
	}
	browser, os, device := ParseUserAgent(userAgent)

	event := &Event{
		Name:           req.Name,
		Value:          req.Value,
		Delta:          req.Delta,
		Rating:         rating,
		MetricID:       req.ID,
		NavigationType: req.NavigationType,
		Path:           path,
		Browser:        browser,
		OS:             os,
		Device:         device,
		IPHash:         HashIP(h.salt, ip),
		Timestamp:      h.now(),
	}
	if err := h.store.SaveEvent(c.Request().Context(), event); err != nil {
		c.Logger().Errorf("Error handling analytics event: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Error processing analytics event"})
	}
	return c.JSON(http.StatusOK, okResponse)
}

func refererPath(ref string) string {
	u, err := url.Parse(ref)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}

// SummaryResponse is the JSON body of the summary endpoint.
type SummaryResponse struct {
	From    time.Time       `json:"from"`
	To      time.Time       `json:"to"`
	Days    int             `json:"days"`
	Metrics []MetricSummary `json:"metrics"`
}

// Summary returns per-metric aggregates for the last ?days= days (default 30).
func (h *Handler) Summary(c echo.Context) error {
	days := 30
	if v := c.QueryParam("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "days must be between 1 and 365"})
		}
		days = n
	}
	to := h.now().UTC()
	from := to.AddDate(0, 0, -days)
	metrics, err := h.store.Summary(c.Request().Context(), from, to.Add(time.Millisecond))
	if err != nil {
		c.Logger().Errorf("Failed to get analytics summary: %v", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
	return c.JSON(http.StatusOK, SummaryResponse{From: from, To: to, Days: days, Metrics: metrics})
}

// RegisterRoutes mounts the public collect endpoint and, when authMiddleware
// is non-nil, the admin summary endpoint behind it.
func (h *Handler) RegisterRoutes(e *echo.Echo, authMiddleware echo.MiddlewareFunc) {
	e.POST("/api/analytics", h.Collect)
	if authMiddleware == nil {
		return
	}

	admin := e.Group("/admin/analytics")
	admin.Use(authMiddleware)
	admin.GET("/api/summary", h.Summary)
}
