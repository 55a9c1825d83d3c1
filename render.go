package folio

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// page builds the data shared by every page for the current request.
func (a *App) page(c echo.Context, meta views.PageMeta) views.Page {
	if meta.URL == "" {
		meta.URL = a.absURL(c.Request().URL.Path)
	}
	return views.Page{
		Site: a.siteView(),
		Meta: meta,
		Path: c.Request().URL.Path,
	}
}
