package folio

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/analytics"
)

func (a *App) setupRoutes(ctx context.Context) error {
	e := a.Echo

	// Embedded assets (site.css, analytics.js) are served under /assets/.
	embeddedFS, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		return fmt.Errorf("folio: embedded assets: %w", err)
	}
	e.StaticFS("/assets", embeddedFS)

	// User's static assets
	e.Static("/public", a.Config.PublicDir)
	e.Static("/images", filepath.Join(a.Config.PublicDir, "images"))
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/about/", a.handleAbout)
	e.GET("/projects/", a.handleProjects)
	e.GET("/projects/:id/", a.handleProject)

	// Admin routes
	if a.Config.AdminEnabled() {
		e.GET("/admin/", a.handleAdmin)
		e.POST("/admin/login/", a.handleAdminLogin)
		e.POST("/admin/logout/", handleAdminLogout)
		e.POST("/admin/reload/", a.handleAdminReload)
		e.POST("/admin/covers/:slug/", a.handleCoverUpload)
	}

	// Analytics routes
	if a.Config.AnalyticsEnabled && a.analyticsStore != nil {
		h, err := analytics.NewHandler(ctx, a.analyticsStore)
		if err != nil {
			return fmt.Errorf("folio: analytics handler: %w", err)
		}
		var auth echo.MiddlewareFunc
		if a.Config.AdminEnabled() {
			auth = requireAdmin
		}
		h.RegisterRoutes(e, auth)
	}
	return nil
}

// requireAdmin redirects unauthenticated requests to the login page.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsAdmin(c) {
			return c.Redirect(http.StatusSeeOther, "/admin/")
		}
		return next(c)
	}
}
