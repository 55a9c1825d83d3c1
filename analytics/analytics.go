// Package analytics collects Core Web Vitals reported by visitors' browsers
// and aggregates them per metric.
package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"
)

// Metric names accepted by the collect endpoint.
const (
	MetricCLS  = "CLS"
	MetricFCP  = "FCP"
	MetricFID  = "FID"
	MetricINP  = "INP"
	MetricLCP  = "LCP"
	MetricTTFB = "TTFB"
)

// Ratings as reported by the web-vitals library.
const (
	RatingGood             = "good"
	RatingNeedsImprovement = "needs-improvement"
	RatingPoor             = "poor"
)

// thresholds holds the good and poor boundaries of each metric.
var thresholds = map[string][2]float64{
	MetricCLS:  {0.1, 0.25},
	MetricFCP:  {1800, 3000},
	MetricFID:  {100, 300},
	MetricINP:  {200, 500},
	MetricLCP:  {2500, 4000},
	MetricTTFB: {800, 1800},
}

// Event is one stored measurement.
type Event struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Value          float64   `json:"value"`
	Delta          float64   `json:"delta"`
	Rating         string    `json:"rating"`
	MetricID       string    `json:"metric_id"`
	NavigationType string    `json:"navigation_type"`
	Path           string    `json:"path"`
	Browser        string    `json:"browser"`
	OS             string    `json:"os"`
	Device         string    `json:"device"`
	IPHash         string    `json:"-"`
	Timestamp      time.Time `json:"timestamp"`
}

// MetricSummary aggregates the events of one metric.
type MetricSummary struct {
	Name             string  `json:"name"`
	Count            int     `json:"count"`
	Average          float64 `json:"average"`
	P75              float64 `json:"p75"`
	Good             int     `json:"good"`
	NeedsImprovement int     `json:"needs_improvement"`
	Poor             int     `json:"poor"`
}

// CollectRequest is the body the browser posts. It mirrors the web-vitals
// Metric object plus the page path.
type CollectRequest struct {
	Name           string  `json:"name"`
	Value          float64 `json:"value"`
	Delta          float64 `json:"delta"`
	Rating         string  `json:"rating"`
	ID             string  `json:"id"`
	NavigationType string  `json:"navigationType"`
	Path           string  `json:"path"`
}

const (
	maxPathLen     = 2048
	maxMetricIDLen = 128
	maxNavTypeLen  = 32
)

func (r *CollectRequest) validate() error {
	r.Name = strings.ToUpper(strings.TrimSpace(r.Name))
	if _, ok := thresholds[r.Name]; !ok {
		return fmt.Errorf("unknown metric %q", r.Name)
	}
	if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) || r.Value < 0 {
		return fmt.Errorf("invalid value for %s", r.Name)
	}
	if math.IsNaN(r.Delta) || math.IsInf(r.Delta, 0) {
		return fmt.Errorf("invalid delta for %s", r.Name)
	}
	switch r.Rating {
	case "", RatingGood, RatingNeedsImprovement, RatingPoor:
	default:
		return fmt.Errorf("invalid rating %q", r.Rating)
	}
	if len(r.Path) > maxPathLen {
		return fmt.Errorf("path exceeds maximum length of %d", maxPathLen)
	}
	if r.Path != "" && !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("path must be site-relative")
	}
	if len(r.ID) > maxMetricIDLen {
		return fmt.Errorf("id exceeds maximum length of %d", maxMetricIDLen)
	}
	if len(r.NavigationType) > maxNavTypeLen {
		return fmt.Errorf("navigationType exceeds maximum length of %d", maxNavTypeLen)
	}
	return nil
}

// Rate classifies a metric value using the web-vitals thresholds.
func Rate(name string, value float64) string {
	t, ok := thresholds[name]
	switch {
	case !ok:
		return ""
	case value <= t[0]:
		return RatingGood
	case value <= t[1]:
		return RatingNeedsImprovement
	default:
		return RatingPoor
	}
}

// HashIP creates a salted SHA-256 hash of an IP address.
func HashIP(salt, ip string) string {
	h := sha256.New()
	h.Write([]byte(salt + ip))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// ParseUserAgent extracts browser, OS, and device from User-Agent string.
func ParseUserAgent(ua string) (browser, os, device string) {
	ua = strings.ToLower(ua)

	// more specific patterns first
	switch {
	case strings.Contains(ua, "firefox"):
		browser = "Firefox"
	case strings.Contains(ua, "opera") || strings.Contains(ua, "opr"):
		browser = "Opera"
	case strings.Contains(ua, "edg"):
		browser = "Edge"
	case strings.Contains(ua, "chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "safari"):
		browser = "Safari"
	default:
		browser = "Other"
	}

	// Android UAs contain "linux"
	switch {
	case strings.Contains(ua, "windows"):
		os = "Windows"
	case strings.Contains(ua, "android"):
		os = "Android"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad"):
		os = "iOS"
	case strings.Contains(ua, "macintosh") || strings.Contains(ua, "mac os"):
		os = "macOS"
	case strings.Contains(ua, "linux"):
		os = "Linux"
	default:
		os = "Other"
	}

	// iPad UAs contain "mobile"
	switch {
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		device = "Tablet"
	case strings.Contains(ua, "mobile"):
		device = "Mobile"
	default:
		device = "Desktop"
	}

	return
}

var botMarkers = []string{
	"bot", "crawler", "spider", "crawl", "slurp", "scrape",
	"yandex", "baidu", "facebookexternalhit", "headlesschrome", "lighthouse",
}

// IsBot checks if the User-Agent is likely a bot/crawler.
func IsBot(ua string) bool {
	ua = strings.ToLower(ua)
	for _, bot := range botMarkers {
		if strings.Contains(ua, bot) {
			return true
		}
	}
	return false
}
