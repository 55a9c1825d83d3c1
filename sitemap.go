package folio

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/projects"
	"github.com/eringen/folio/sitemap"
)

// unservedRoutes are default static routes the web layer has no page for.
var unservedRoutes = map[string]bool{"/contact": true}

// NewSitemapGenerator returns the sitemap generator for cfg. Project pages
// are listed after the default static routes.
func NewSitemapGenerator(cfg SiteConfig, catalog []projects.Project, logger content.Logger) *sitemap.Generator {
	var routes []sitemap.Route
	for _, r := range sitemap.DefaultStaticRoutes {
		if !unservedRoutes[r.Path] {
			routes = append(routes, r)
		}
	}
	for _, p := range catalog {
		routes = append(routes, sitemap.Route{
			Path:            p.Path(),
			ChangeFrequency: sitemap.Monthly,
			Priority:        0.6,
		})
	}
	return sitemap.New(cfg.URL, cfg.ContentDir,
		sitemap.WithExt(cfg.Ext),
		sitemap.WithStaticRoutes(routes),
		sitemap.WithLogger(logger),
	)
}

func (a *App) renderSitemap(c echo.Context) error {
	entries, err := NewSitemapGenerator(a.Config, a.Projects(), a.logger).Generate(c.Request().Context())
	if err != nil {
		return err
	}
	out, err := sitemap.XML(entries)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", out)
}

// robotsTxt allows everything except the API and build output paths and
// points crawlers at the sitemap.
func (a *App) robotsTxt() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	for _, p := range []string{"/api/", "/_next/", "/_vercel/"} {
		b.WriteString("Disallow: " + p + "\n")
	}
	b.WriteString("\nSitemap: " + a.absURL("/sitemap.xml") + "\n")
	return b.String()
}

// handleRobots serves public/robots.txt when present, otherwise the
// generated rules.
func (a *App) handleRobots(c echo.Context) error {
	path := filepath.Join(a.Config.PublicDir, "robots.txt")
	if _, err := os.Stat(path); err == nil {
		return c.File(path)
	}
	return c.String(http.StatusOK, a.robotsTxt())
}
