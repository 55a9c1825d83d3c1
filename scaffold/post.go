package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/cover"
)

const dateLayout = "2006-01-02"

var (
	nonWord    = regexp.MustCompile(`[^\w\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
	dashes     = regexp.MustCompile(`-+`)
)

// Slug turns a post title into a file-name slug: lowercased, punctuation
// dropped, whitespace runs replaced by a dash.
func Slug(title string) string {
	s := strings.ToLower(title)
	s = nonWord.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	return dashes.ReplaceAllString(s, "-")
}

// PostOptions describe a new post.
type PostOptions struct {
	Title string
	Tags  []string
	Draft bool
	// Date is YYYY-MM-DD. Empty means today.
	Date string
	// Dir is the content directory the post is written to.
	Dir string
	// Ext defaults to content.DefaultExt.
	Ext string
	Now func() time.Time
}

// NewPost writes a post skeleton with complete front matter and returns its
// path and slug. It never overwrites an existing post.
func NewPost(opts PostOptions) (string, string, error) {
	title := strings.TrimSpace(opts.Title)
	slug := strings.Trim(Slug(title), "-")
	if slug == "" {
		return "", "", fmt.Errorf("title %q does not produce a usable slug", opts.Title)
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	date := opts.Date
	if date == "" {
		date = now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return "", "", fmt.Errorf("invalid date %q: use YYYY-MM-DD", date)
	}
	ext := opts.Ext
	if ext == "" {
		ext = content.DefaultExt
	}

	var tags []string
	for _, t := range opts.Tags {
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tags = append(tags, part)
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	if err := writeFrontMatter(&buf, title, date, slug, tags, opts.Draft); err != nil {
		return "", "", err
	}
	buf.WriteString("---\n\n")
	if err := postTemplate.Execute(&buf, struct{ Title string }{title}); err != nil {
		return "", "", fmt.Errorf("execute post template: %w", err)
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return "", "", err
	}
	path := filepath.Join(opts.Dir, slug+ext)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return "", "", fmt.Errorf("a post with the slug %q %w", slug, ErrExists)
	}
	if err != nil {
		return "", "", err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return "", "", err
	}
	return path, slug, f.Close()
}

var postTemplate = template.Must(template.ParseFS(Templates, "templates/post.mdx.tmpl"))

// writeFrontMatter encodes the front-matter block with every string
// double-quoted and tags as a flow sequence.
func writeFrontMatter(buf *bytes.Buffer, title, date, slug string, tags []string, draft bool) error {
	quoted := func(s string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s, Style: yaml.DoubleQuotedStyle}
	}
	key := func(s string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	}

	tagSeq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, t := range tags {
		tagSeq.Content = append(tagSeq.Content, quoted(t))
	}

	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	doc.Content = []*yaml.Node{
		key("title"), quoted(title),
		key("date"), quoted(date),
		key("description"), quoted("A detailed post about " + title),
		key("excerpt"), quoted("A brief summary of the " + title + " post"),
		key("coverImage"), quoted(cover.PublicPath(slug)),
		key("tags"), tagSeq,
		key("draft"), {Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(draft)},
	}

	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode front matter: %w", err)
	}
	return enc.Close()
}
