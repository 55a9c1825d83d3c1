// Package sitemap builds the list of indexable site URLs and serializes it
// to the sitemaps.org XML format.
package sitemap

import (
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/eringen/folio/content"
)

// ChangeFrequency is how often a page is expected to change.
type ChangeFrequency string

const (
	Always  ChangeFrequency = "always"
	Hourly  ChangeFrequency = "hourly"
	Daily   ChangeFrequency = "daily"
	Weekly  ChangeFrequency = "weekly"
	Monthly ChangeFrequency = "monthly"
	Yearly  ChangeFrequency = "yearly"
	Never   ChangeFrequency = "never"
)

// Entry is a single sitemap URL.
type Entry struct {
	URL             string
	LastModified    time.Time
	ChangeFrequency ChangeFrequency
	Priority        float64
}

// Route is a static page listed in every sitemap.
type Route struct {
	Path            string
	ChangeFrequency ChangeFrequency
	Priority        float64
}

// DefaultStaticRoutes are the fixed pages of the site.
var DefaultStaticRoutes = []Route{
	{Path: "/", ChangeFrequency: Daily, Priority: 1.0},
	{Path: "/blog", ChangeFrequency: Daily, Priority: 0.8},
	{Path: "/about", ChangeFrequency: Monthly, Priority: 0.7},
	{Path: "/projects", ChangeFrequency: Weekly, Priority: 0.8},
	{Path: "/contact", ChangeFrequency: Monthly, Priority: 0.5},
}

const (
	postChangeFrequency = Weekly
	postPriority        = 0.9
)

// Generator produces sitemap entries for a site.
type Generator struct {
	baseURL    string
	contentDir string
	ext        string
	routes     []Route
	now        func() time.Time
	logger     content.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithExt sets the post file extension.
func WithExt(ext string) Option {
	return func(g *Generator) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		g.ext = ext
	}
}

// WithStaticRoutes replaces DefaultStaticRoutes.
func WithStaticRoutes(routes []Route) Option {
	return func(g *Generator) { g.routes = routes }
}

// WithClock sets the time source used for static entries.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithLogger sets the logger.
func WithLogger(l content.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// New returns a Generator for the site at baseURL whose posts live in
// contentDir.
func New(baseURL, contentDir string, opts ...Option) *Generator {
	g := &Generator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		contentDir: contentDir,
		ext:        content.DefaultExt,
		routes:     DefaultStaticRoutes,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = content.NewLogger("sitemap")
	}
	return g
}

// Generate returns the static entries followed by one entry per post file.
// Files that cannot be stat'ed are logged and left out. A directory that
// cannot be listed is logged and only the static entries are returned.
func (g *Generator) Generate(ctx context.Context) ([]Entry, error) {
	now := g.now()
	entries := make([]Entry, 0, len(g.routes))
	for _, r := range g.routes {
		entries = append(entries, Entry{
			URL:             g.url(r.Path),
			LastModified:    now,
			ChangeFrequency: r.ChangeFrequency,
			Priority:        r.Priority,
		})
	}

	files, err := content.ListFiles(g.contentDir, g.ext)
	if err != nil {
		g.logger.Errorf("error generating post sitemap entries: %v", err)
		return entries, nil
	}
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(filepath.Join(g.contentDir, name))
		if err != nil {
			g.logger.Errorf("error processing file %s: %v", name, err)
			continue
		}
		entries = append(entries, Entry{
			URL:             g.url("/blog/" + content.SlugFromFile(name, g.ext)),
			LastModified:    info.ModTime(),
			ChangeFrequency: postChangeFrequency,
			Priority:        postPriority,
		})
	}
	return entries, nil
}

func (g *Generator) url(path string) string {
	if path == "" || path == "/" {
		return g.baseURL
	}
	return g.baseURL + "/" + strings.TrimLeft(path, "/")
}

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []url    `xml:"url"`
}

type url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// XML serializes entries as a sitemap document. lastmod is written as a UTC
// date; lastmod, changefreq and priority are omitted when unset.
func XML(entries []Entry) ([]byte, error) {
	set := urlSet{XMLNS: xmlns, URLs: make([]url, 0, len(entries))}
	for _, e := range entries {
		u := url{Loc: e.URL, ChangeFreq: string(e.ChangeFrequency)}
		if !e.LastModified.IsZero() {
			u.LastMod = e.LastModified.UTC().Format("2006-01-02")
		}
		if e.Priority != 0 {
			u.Priority = strconv.FormatFloat(e.Priority, 'f', -1, 64)
		}
		set.URLs = append(set.URLs, u)
	}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
