package folio

import (
	"github.com/a-h/templ"

	"github.com/eringen/folio/views"
)

// ViewFuncs holds the page components the handlers render. Any nil field
// falls back to the matching component of the views package.
type ViewFuncs struct {
	Home           func(views.HomeData) templ.Component
	Blog           func(views.BlogData) templ.Component
	BlogSection    func(views.BlogData) templ.Component
	Post           func(views.PostData) templ.Component
	About          func(views.Page) templ.Component
	Projects       func(views.ProjectsData) templ.Component
	Project        func(views.ProjectData) templ.Component
	AdminLogin     func(views.AdminLoginData) templ.Component
	AdminDashboard func(views.AdminData) templ.Component
	NotFound       func(views.ErrorData) templ.Component
	ServerError    func(views.ErrorData) templ.Component
}

func (v *ViewFuncs) setDefaults() {
	if v.Home == nil {
		v.Home = views.Home
	}
	if v.Blog == nil {
		v.Blog = views.Blog
	}
	if v.BlogSection == nil {
		v.BlogSection = views.BlogSection
	}
	if v.Post == nil {
		v.Post = views.Post
	}
	if v.About == nil {
		v.About = views.About
	}
	if v.Projects == nil {
		v.Projects = views.Projects
	}
	if v.Project == nil {
		v.Project = views.Project
	}
	if v.AdminLogin == nil {
		v.AdminLogin = views.AdminLogin
	}
	if v.AdminDashboard == nil {
		v.AdminDashboard = views.AdminDashboard
	}
	if v.NotFound == nil {
		v.NotFound = views.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = views.ServerError
	}
}
