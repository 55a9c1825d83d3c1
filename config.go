package folio

import (
	"time"

	"github.com/eringen/folio/content"
)

// SiteConfig holds all configuration for a folio site. The mapstructure tags
// match the keys of folio.yaml.
type SiteConfig struct {
	Name        string `mapstructure:"name"`        // Site name (default "Folio")
	URL         string `mapstructure:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"description"` // Site description for RSS and meta tags
	Author      string `mapstructure:"author"`      // Author name for JSON-LD

	Addr string `mapstructure:"addr"` // Listen address (default ":3000")

	ContentDir   string `mapstructure:"content_dir"`   // Post directory (default "posts")
	PublicDir    string `mapstructure:"public_dir"`    // Static assets (default "public")
	ProjectsFile string `mapstructure:"projects_file"` // Project catalog (default "projects.yaml")
	Ext          string `mapstructure:"ext"`           // Post file extension (default ".mdx")
	Concurrency  int    `mapstructure:"concurrency"`   // Files read at once during a load

	// CacheTTL bounds how long a post listing is reused. Zero re-reads the
	// content directory on every request.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// Watch invalidates the cache when the content directory changes.
	Watch bool `mapstructure:"watch"`

	AnalyticsEnabled bool   `mapstructure:"analytics_enabled"`
	AnalyticsDB      string `mapstructure:"analytics_db"` // default "data/analytics.db"

	// AdminPassword enables /admin/ when set.
	AdminPassword string `mapstructure:"admin_password"`
	SessionSecret string `mapstructure:"session_secret"`
	CookieSecure  bool   `mapstructure:"cookie_secure"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Folio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "posts"
	}
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.ProjectsFile == "" {
		c.ProjectsFile = "projects.yaml"
	}
	if c.Ext == "" {
		c.Ext = content.DefaultExt
	}
	if c.AnalyticsDB == "" {
		c.AnalyticsDB = "data/analytics.db"
	}
	if c.CacheTTL < 0 {
		c.CacheTTL = 0
	}
}

// AdminEnabled reports whether the admin area is served.
func (c SiteConfig) AdminEnabled() bool {
	return c.AdminPassword != ""
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithViews replaces the default page components. Nil fields keep the default.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}

// WithLogger sets the logger used by the content loaders and background jobs.
func WithLogger(l content.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithPostSource replaces the content repository the cache reads from.
func WithPostSource(s PostSource) Option {
	return func(a *App) {
		a.source = s
	}
}
