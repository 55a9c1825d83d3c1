// Package folio serves a portfolio site from a directory of MDX posts: a
// paginated blog with tag filters, a projects showcase, RSS, a sitemap, an
// admin page reporting content problems, and web-vitals collection.
//
// Content is read from disk on demand and cached for a configurable TTL.
// Page markup comes from ViewFuncs; the views package provides defaults.
package folio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/analytics"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/projects"
)

const (
	postsPerPage       = 6
	analyticsRetention = 365 * 24 * time.Hour
)

// App is the central folio application. It wires together the content
// repository, cache, handlers, middleware, and page components.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Cache  *PostCache
	Views  ViewFuncs

	source         PostSource
	logger         content.Logger
	loginLimiter   *LoginLimiter
	analyticsStore *analytics.Store
	stopCleanup    func()
	watcher        *Watcher
	customRoutes   []func(*App)

	projectsMu sync.RWMutex
	projects   []projects.Project
}

// New creates a folio App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	a.Views.setDefaults()
	if a.logger == nil {
		a.logger = a.Echo.Logger
	}
	if a.source == nil {
		a.source = content.NewRepository(cfg.ContentDir,
			content.WithExt(cfg.Ext),
			content.WithConcurrency(cfg.Concurrency),
			content.WithLogger(a.logger),
		)
	}
	return a
}

// Init prepares the cache, project catalog, analytics store, watcher,
// middleware and routes without starting the server.
func (a *App) Init(ctx context.Context) error {
	if a.Config.AdminEnabled() && a.Config.SessionSecret == "" {
		return fmt.Errorf("folio: SessionSecret is required when AdminPassword is set")
	}

	a.Cache = NewPostCache(a.source, a.Config.CacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	if err := a.ReloadProjects(); err != nil {
		return fmt.Errorf("folio: load projects: %w", err)
	}

	if a.Config.AnalyticsEnabled {
		store, err := analytics.NewStore(a.Config.AnalyticsDB)
		if err != nil {
			return fmt.Errorf("folio: init analytics: %w", err)
		}
		a.analyticsStore = store
		a.stopCleanup = store.StartCleanupScheduler(analyticsRetention, 24*time.Hour, a.logger)
	}

	if a.Config.Watch {
		dirs := []string{a.Config.ContentDir, filepath.Dir(a.Config.ProjectsFile)}
		w, err := Watch(dirs, 0, contentMatcher(a.Config.Ext, a.Config.ProjectsFile), a.reload, a.logger)
		if err != nil {
			return fmt.Errorf("folio: watch content: %w", err)
		}
		a.watcher = w
	}

	a.setupMiddleware()
	if err := a.setupRoutes(ctx); err != nil {
		return err
	}
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and serves until the server is shut down.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	var errs []error
	if a.watcher != nil {
		errs = append(errs, a.watcher.Close())
	}
	if a.stopCleanup != nil {
		a.stopCleanup()
	}
	if a.analyticsStore != nil {
		errs = append(errs, a.analyticsStore.Close())
	}
	return errors.Join(errs...)
}

// Projects returns the loaded project catalog.
func (a *App) Projects() []projects.Project {
	a.projectsMu.RLock()
	defer a.projectsMu.RUnlock()
	return a.projects
}

// ReloadProjects re-reads the project catalog. A missing file is an empty catalog.
func (a *App) ReloadProjects() error {
	list, err := projects.Load(a.Config.ProjectsFile)
	if err != nil {
		return err
	}
	a.projectsMu.Lock()
	a.projects = list
	a.projectsMu.Unlock()
	return nil
}

// reload drops cached content after a change on disk.
func (a *App) reload() {
	a.Cache.Invalidate()
	if err := a.ReloadProjects(); err != nil {
		a.logger.Errorf("reload projects: %v", err)
	}
}
