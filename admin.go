package folio

import (
	"crypto/subtle"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/validate"
	"github.com/eringen/folio/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return a.renderAdminLogin(c, false)
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	return a.renderAdminLogin(c, true)
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// handleAdminReload drops the post cache and re-reads the project catalog.
func (a *App) handleAdminReload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.Cache.Invalidate()
	msg := "Content reloaded."
	if err := a.ReloadProjects(); err != nil {
		c.Logger().Errorf("reload projects: %v", err)
		msg = "Posts reloaded; projects failed: " + err.Error()
	}
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(msg))
}

func (a *App) renderAdminLogin(c echo.Context, showError bool) error {
	return Render(c, a.Views.AdminLogin(views.AdminLoginData{
		Page:      a.page(c, views.PageMeta{Title: "Admin"}),
		ShowError: showError,
		CSRFToken: CSRFToken(c),
	}))
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	ctx := c.Request().Context()
	res, err := a.Cache.Result(ctx)
	if err != nil {
		return err
	}
	report, err := validate.New(a.Config.ContentDir, a.Config.PublicDir,
		validate.WithExt(a.Config.Ext),
		validate.WithLogger(c.Logger()),
	).ValidateAll(ctx)
	if err != nil {
		c.Logger().Warnf("validate posts: %v", err)
	}
	return Render(c, a.Views.AdminDashboard(views.AdminData{
		Page:      a.page(c, views.PageMeta{Title: "Dashboard"}),
		Message:   msg,
		CSRFToken: CSRFToken(c),
		Posts:     res.Posts,
		Skipped:   res.Skipped(),
		Report:    report,
	}))
}
