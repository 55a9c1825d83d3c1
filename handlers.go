package folio

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/projects"
	"github.com/eringen/folio/views"
)

const (
	homeLatest   = 3
	relatedLimit = 3
)

func isHX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context(), "")
	if err != nil {
		return err
	}
	if len(posts) > homeLatest {
		posts = posts[:homeLatest]
	}
	return Render(c, a.Views.Home(views.HomeData{
		Page: a.page(c, views.PageMeta{
			Description: a.Config.Description,
			OGType:      "website",
			JSONLD:      views.WebsiteJsonLD(a.siteView()),
		}),
		Latest:   posts,
		Featured: projects.Featured(a.Projects()),
	}))
}

func (a *App) handleBlog(c echo.Context) error {
	ctx := c.Request().Context()
	tag := strings.TrimSpace(c.QueryParam("tag"))
	posts, err := a.Cache.ListPosts(ctx, tag)
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags(ctx)
	if err != nil {
		return err
	}
	data := views.BlogData{
		Page:      a.page(c, views.PageMeta{Title: "Blog", OGType: "website"}),
		Listing:   content.Paginate(posts, pageNumber(c.QueryParam("page")), postsPerPage),
		Tags:      tags,
		ActiveTag: strings.ToLower(tag),
	}
	if isHX(c) {
		return Render(c, a.Views.BlogSection(data))
	}
	return Render(c, a.Views.Blog(data))
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := a.Cache.GetPost(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	posts, err := a.Cache.ListPosts(ctx, "")
	if err != nil {
		return err
	}
	meta := views.PageMeta{
		Title:       post.Meta.Title,
		Description: post.Summary(),
		URL:         a.absURL(post.Link()),
		OGType:      "article",
		JSONLD:      views.BlogPostingJsonLD(a.siteView(), post),
	}
	if post.Meta.CoverImage != "" {
		meta.Image = a.absURL(post.Meta.CoverImage)
	}
	return Render(c, a.Views.Post(views.PostData{
		Page:        a.page(c, meta),
		Post:        post,
		Related:     content.Related(post, posts, relatedLimit),
		Headings:    markdown.Headings([]byte(post.Content)),
		ReadingTime: content.ReadingTime(post.Content),
	}))
}

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, a.Views.About(a.page(c, views.PageMeta{Title: "About", OGType: "website"})))
}

func (a *App) handleProjects(c echo.Context) error {
	all := a.Projects()
	typ := strings.ToLower(strings.TrimSpace(c.QueryParam("type")))
	return Render(c, a.Views.Projects(views.ProjectsData{
		Page:       a.page(c, views.PageMeta{Title: "Projects", OGType: "website"}),
		Projects:   projects.Filter(all, typ),
		Types:      projects.Types(all),
		ActiveType: typ,
	}))
}

func (a *App) handleProject(c echo.Context) error {
	p, err := projects.Find(a.Projects(), c.Param("id"))
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	meta := views.PageMeta{Title: p.Title, Description: p.Description, OGType: "website"}
	if p.Image != "" {
		meta.Image = a.absURL(p.Image)
	}
	return Render(c, a.Views.Project(views.ProjectData{
		Page:    a.page(c, meta),
		Project: p,
	}))
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(views.ErrorData{
			Page:    a.page(c, views.PageMeta{Title: "Not Found"}),
			Code:    http.StatusNotFound,
			Message: "The page you are looking for does not exist.",
		}))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(views.ErrorData{
			Page:    a.page(c, views.PageMeta{Title: "Error"}),
			Code:    code,
			Message: "Something went wrong. Please try again later.",
		}))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func (a *App) siteView() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
		Analytics:   a.Config.AnalyticsEnabled,
	}
}
