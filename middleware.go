package folio

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// routeKind groups request paths by how the middleware stack treats them.
type routeKind int

const (
	routePage routeKind = iota
	routeEmbedded
	routeStatic
	routeFeed
	routeAPI
	routeAdmin
)

// cachePolicies maps each kind to its Cache-Control value.
var cachePolicies = map[routeKind]string{
	routePage:     "public, max-age=3600",
	routeEmbedded: "public, max-age=86400",
	routeStatic:   "public, max-age=31536000, immutable",
	routeFeed:     "public, max-age=86400",
	routeAPI:      "no-store",
	routeAdmin:    "no-store",
}

var feedPaths = map[string]bool{
	"/sitemap.xml": true,
	"/feed.xml":    true,
	"/robots.txt":  true,
}

func classifyPath(path string) routeKind {
	switch {
	case strings.HasPrefix(path, "/assets/"):
		return routeEmbedded
	case strings.HasPrefix(path, "/public/"), strings.HasPrefix(path, "/images/"):
		return routeStatic
	case feedPaths[path]:
		return routeFeed
	case strings.HasPrefix(path, "/api/"), strings.HasPrefix(path, "/admin/analytics/api/"):
		return routeAPI
	case path == "/admin" || strings.HasPrefix(path, "/admin/"):
		return routeAdmin
	}
	return routePage
}

// contentSecurityPolicy permits the htmx and web-vitals scripts served from unpkg.
const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' https://unpkg.com; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' https: data:; " +
	"font-src 'self'; " +
	"connect-src 'self'"

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Status >= http.StatusInternalServerError {
				a.logger.Errorf("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
				return nil
			}
			a.logger.Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Images are already compressed.
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return classifyPath(c.Request().URL.Path) == routeStatic
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
		HSTSMaxAge:            31536000,
	}))

	if a.Config.AdminEnabled() {
		e.Use(a.sessionMiddleware())
	}

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:     middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		// Beacons carry no token.
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/api/analytics" || strings.HasPrefix(path, "/api/analytics/")
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			kind := classifyPath(c.Request().URL.Path)
			return kind != routePage && kind != routeAdmin
		},
	}))

	e.Use(cacheControl)
}

func cacheControl(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		kind := classifyPath(c.Request().URL.Path)
		c.Response().Header().Set("Cache-Control", cachePolicies[kind])
		return next(c)
	}
}
