package views

import (
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/markdown"
	"github.com/eringen/folio/projects"
	"github.com/eringen/folio/validate"
)

// SiteConfig holds the site-wide settings every page receives.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
	// Analytics enables the web-vitals beacon script.
	Analytics bool
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
	JSONLD      string
}

// Page is embedded by every page's data.
type Page struct {
	Site SiteConfig
	Meta PageMeta
	// Path is the request path, used to highlight navigation.
	Path string
}

// HomeData feeds the landing page.
type HomeData struct {
	Page
	Latest   []content.Post
	Featured []projects.Project
}

// BlogData feeds the paginated post listing.
type BlogData struct {
	Page
	Listing   content.Page
	Tags      []string
	ActiveTag string
}

// PostData feeds a single post.
type PostData struct {
	Page
	Post        content.Post
	Related     []content.Post
	Headings    []markdown.Heading
	ReadingTime int
}

// ProjectsData feeds the project showcase.
type ProjectsData struct {
	Page
	Projects   []projects.Project
	Types      []string
	ActiveType string
}

// ProjectData feeds a single project page.
type ProjectData struct {
	Page
	Project projects.Project
}

// AdminLoginData feeds the login form.
type AdminLoginData struct {
	Page
	ShowError bool
	CSRFToken string
}

// AdminData feeds the admin dashboard.
type AdminData struct {
	Page
	Message   string
	CSRFToken string
	Posts     []content.Post
	Skipped   []content.Outcome
	Report    validate.Report
}

// ErrorData feeds the 404 and 500 pages.
type ErrorData struct {
	Page
	Code    int
	Message string
}
