package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/537.36 Chrome/120.0 Safari/537.36"

func newTestHandler(t *testing.T, opts ...HandlerOption) (*Handler, *Store, *echo.Echo) {
	t.Helper()
	s := setupTestStore(t)
	opts = append([]HandlerOption{WithClock(func() time.Time { return base })}, opts...)
	h, err := NewHandler(context.Background(), s, opts...)
	if err != nil {
		t.Fatalf("NewHandler failed: %v", err)
	}
	e := echo.New()
	h.RegisterRoutes(e, func(next echo.HandlerFunc) echo.HandlerFunc { return next })
	return h, s, e
}

func post(e *echo.Echo, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/analytics", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/plain;charset=UTF-8")
	req.Header.Set("User-Agent", browserUA)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func eventCount(t *testing.T, s *Store) int {
	t.Helper()
	got, err := s.Summary(context.Background(), base.Add(-time.Hour), base.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for _, m := range got {
		n += m.Count
	}
	return n
}

func TestCollectStoresEvent(t *testing.T) {
	_, s, e := newTestHandler(t)
	rec := post(e, `{"name":"LCP","value":1800.5,"delta":1800.5,"id":"v3-1","navigationType":"navigate","path":"/blog/hello/"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp["success"] != true {
		t.Errorf("body = %s", rec.Body.String())
	}
	got, err := s.Summary(context.Background(), base.Add(-time.Hour), base.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != MetricLCP || got[0].Good != 1 {
		t.Errorf("stored = %+v, want one good LCP", got)
	}
}

func TestCollectSkipsWithoutStoring(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
	}{
		{"do not track", map[string]string{"DNT": "1"}},
		{"bot", map[string]string{"User-Agent": "Mozilla/5.0 (compatible; bingbot/2.0)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, s, e := newTestHandler(t)
			rec := post(e, `{"name":"CLS","value":0.01}`, tt.header)
			if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"success":true`) {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			if n := eventCount(t, s); n != 0 {
				t.Errorf("stored %d events, want 0", n)
			}
		})
	}
}

func TestCollectRejectsInvalidEvents(t *testing.T) {
	bodies := []string{
		`not json`,
		`{"name":"BOGUS","value":1}`,
		`{"name":"LCP","value":-1}`,
		`{"name":"LCP","value":1,"rating":"great"}`,
		`{"name":"LCP","value":1,"path":"https://evil.example/"}`,
	}
	for _, body := range bodies {
		_, s, e := newTestHandler(t)
		rec := post(e, body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"error"`) {
			t.Errorf("%s: body = %s", body, rec.Body.String())
		}
		if n := eventCount(t, s); n != 0 {
			t.Errorf("%s: stored %d events", body, n)
		}
	}
}

func TestCollectRateLimited(t *testing.T) {
	_, _, e := newTestHandler(t, WithRateLimit(rate.Every(time.Hour), 2))
	body := `{"name":"FCP","value":900}`
	for i := 0; i < 2; i++ {
		if rec := post(e, body, nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	if rec := post(e, body, nil); rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if rec := post(e, body, map[string]string{"X-Real-IP": "198.51.100.7"}); rec.Code != http.StatusOK {
		t.Errorf("other IP status = %d, want 200", rec.Code)
	}
}

func TestCollectUsesRefererPath(t *testing.T) {
	_, s, e := newTestHandler(t)
	post(e, `{"name":"TTFB","value":100}`, map[string]string{"Referer": "https://example.com/projects/x/?a=1"})
	var path string
	if err := s.db.QueryRow(`SELECT path FROM events`).Scan(&path); err != nil {
		t.Fatal(err)
	}
	if path != "/projects/x/" {
		t.Errorf("path = %q", path)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	_, _, e := newTestHandler(t)
	post(e, `{"name":"INP","value":150}`, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/analytics/api/summary?days=7", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Days != 7 || len(resp.Metrics) != 1 || resp.Metrics[0].Name != MetricINP {
		t.Errorf("resp = %+v", resp)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/analytics/api/summary?days=0", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("days=0 status = %d, want 400", rec.Code)
	}
}
