package views

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/folio/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"label":      Label,
	"labels":     Labels,
	"tagClass":   TagClass,
	"joinTags":   JoinTags,
	"formatDate": FormatDate,
	"pathEscape": PathEscape,
	"markdown":   renderMarkdown,
	"jsonld":     func(s string) template.JS { return template.JS(s) },
	"add":        func(a, b int) int { return a + b },
	"sub":        func(a, b int) int { return a - b },
}

var pages = parsePages(
	"home.html",
	"blog.html",
	"post.html",
	"about.html",
	"projects.html",
	"project.html",
	"admin_login.html",
	"admin.html",
	"error.html",
)

// parsePages parses each page template into its own clone of the shared
// layout so every page can define its own "content" block.
func parsePages(names ...string) map[string]*template.Template {
	base := template.Must(template.New("layout.html").Funcs(funcs).
		ParseFS(templateFS, "templates/layout.html", "templates/partials.html"))
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t := template.Must(base.Clone())
		out[name] = template.Must(t.ParseFS(templateFS, "templates/"+name))
	}
	return out
}

func renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Markdown(src).Render(context.Background(), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// page adapts a parsed html/template to a templ.Component.
func page(file, entry string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages[file].ExecuteTemplate(w, entry, data)
	})
}

func Home(d HomeData) templ.Component         { return page("home.html", "layout", d) }
func Blog(d BlogData) templ.Component         { return page("blog.html", "layout", d) }
func BlogSection(d BlogData) templ.Component  { return page("blog.html", "blog-section", d) }
func Post(d PostData) templ.Component         { return page("post.html", "layout", d) }
func About(d Page) templ.Component            { return page("about.html", "layout", d) }
func Projects(d ProjectsData) templ.Component { return page("projects.html", "layout", d) }
func Project(d ProjectData) templ.Component   { return page("project.html", "layout", d) }
func NotFound(d ErrorData) templ.Component    { return page("error.html", "layout", d) }
func ServerError(d ErrorData) templ.Component { return page("error.html", "layout", d) }

func AdminLogin(d AdminLoginData) templ.Component {
	return page("admin_login.html", "layout", d)
}

func AdminDashboard(d AdminData) templ.Component {
	return page("admin.html", "layout", d)
}
