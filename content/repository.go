// Package content loads MDX posts from a directory: it splits front matter
// from the body, applies metadata defaults, drops posts that cannot be shown,
// and returns the rest newest first.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/folio/markdown"
)

// DefaultExt is the extension of post files.
const DefaultExt = ".mdx"

const defaultConcurrency = 8

// Post is a loaded post. Date is the parsed form of Meta.Date and is zero
// when the date could not be parsed. Defaulted lists metadata fields that
// were not present in front matter.
type Post struct {
	Slug      string
	Meta      Metadata
	Content   string
	Date      time.Time
	Defaulted []string
}

// Link returns the site-relative URL of the post.
func (p Post) Link() string {
	return "/blog/" + p.Slug + "/"
}

// Summary returns the excerpt, falling back to the description.
func (p Post) Summary() string {
	if p.Meta.Excerpt != "" {
		return p.Meta.Excerpt
	}
	return p.Meta.Description
}

func (p Post) defaulted(field string) bool {
	return slices.Contains(p.Defaulted, field)
}

// Outcome is the result of loading one content file.
type Outcome struct {
	File   string
	Slug   string
	Post   *Post
	Reason SkipReason
	Err    error
}

// LoadResult holds the listed posts and the per-file outcomes that produced them.
type LoadResult struct {
	Posts    []Post
	Outcomes []Outcome
}

// Skipped returns the outcomes that produced no listed post.
func (r LoadResult) Skipped() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Reason != SkipNone {
			out = append(out, o)
		}
	}
	return out
}

// Compiler checks a post body. Its output is discarded.
type Compiler interface {
	Compile(src []byte) error
}

// CompilerFunc adapts a function to Compiler.
type CompilerFunc func(src []byte) error

func (f CompilerFunc) Compile(src []byte) error { return f(src) }

// Repository reads posts from a content directory. It keeps no state between
// calls; every Load re-reads the directory.
type Repository struct {
	dir         string
	ext         string
	concurrency int
	logger      Logger
	compiler    Compiler
	now         func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithExt sets the post file extension (default ".mdx").
func WithExt(ext string) Option {
	return func(r *Repository) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.ext = ext
	}
}

// WithConcurrency bounds the number of files read at once.
func WithConcurrency(n int) Option {
	return func(r *Repository) { r.concurrency = n }
}

// WithLogger sets the logger used for skipped files.
func WithLogger(l Logger) Option {
	return func(r *Repository) { r.logger = l }
}

// WithCompiler replaces the body check run on every post.
func WithCompiler(c Compiler) Option {
	return func(r *Repository) { r.compiler = c }
}

// WithClock sets the time source used for the default date.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// NewRepository returns a Repository over dir.
func NewRepository(dir string, opts ...Option) *Repository {
	r := &Repository{
		dir:         dir,
		ext:         DefaultExt,
		concurrency: defaultConcurrency,
		compiler:    CompilerFunc(markdown.Compile),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.ext == "" {
		r.ext = DefaultExt
	}
	if r.concurrency < 1 {
		r.concurrency = 1
	}
	if r.logger == nil {
		r.logger = NewLogger("content")
	}
	return r
}

// Dir returns the content directory.
func (r *Repository) Dir() string { return r.dir }

// Ext returns the post file extension.
func (r *Repository) Ext() string { return r.ext }

// AllPosts returns every listable post, newest first.
func (r *Repository) AllPosts(ctx context.Context) ([]Post, error) {
	res, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	return res.Posts, nil
}

// Load reads every post file concurrently and reports what happened to each.
// Files that fail to load, or load without a title or date, are logged and
// left out of Posts. Only a failure to list the directory is returned.
func (r *Repository) Load(ctx context.Context) (LoadResult, error) {
	files, err := ListFiles(r.dir, r.ext)
	if err != nil {
		r.logger.Errorf("reading posts directory %s: %v", r.dir, err)
		return LoadResult{}, fmt.Errorf("list posts: %w", err)
	}

	outcomes := make([]Outcome, len(files))
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, name := range files {
		g.Go(func() error {
			outcomes[i] = r.loadFile(ctx, name)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return LoadResult{}, err
	}

	posts := make([]Post, 0, len(outcomes))
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			r.logger.Errorf("skipping %s: %v", o.File, o.Err)
		case o.Reason != SkipNone:
			r.logger.Warnf("skipping post %s: %s", o.Slug, o.Reason)
		default:
			posts = append(posts, *o.Post)
		}
	}
	SortByDate(posts)

	if skipped := len(outcomes) - len(posts); skipped > 0 {
		r.logger.Warnf("loaded %d posts, skipped %d", len(posts), skipped)
	} else {
		r.logger.Infof("loaded %d posts", len(posts))
	}
	return LoadResult{Posts: posts, Outcomes: outcomes}, nil
}

func (r *Repository) loadFile(ctx context.Context, name string) Outcome {
	slug := SlugFromFile(name, r.ext)
	o := Outcome{File: name, Slug: slug}
	p, err := r.PostBySlug(ctx, slug)
	if err != nil {
		o.Err = err
		switch {
		case errors.Is(err, errMalformed):
			o.Reason = SkipMalformed
		case errors.Is(err, errInvalidBody):
			o.Reason = SkipInvalidBody
		default:
			o.Reason = SkipUnreadable
		}
		return o
	}
	o.Post = &p
	o.Reason = classify(p)
	return o
}

func classify(p Post) SkipReason {
	if p.Meta.Title == "" || p.Meta.Title == UntitledTitle {
		return SkipMissingTitle
	}
	if p.Meta.Date == "" || p.defaulted("date") || p.Date.IsZero() {
		return SkipMissingDate
	}
	return SkipNone
}

// PostBySlug loads a single post. A trailing extension on slug is ignored.
// A slug with no backing file yields a *PostError wrapping ErrNotFound.
func (r *Repository) PostBySlug(ctx context.Context, slug string) (Post, error) {
	slug = strings.TrimSuffix(slug, r.ext)
	if !validSlug(slug) {
		return Post{}, &PostError{Slug: slug, Err: ErrNotFound}
	}
	if err := ctx.Err(); err != nil {
		return Post{}, &PostError{Slug: slug, Err: err}
	}

	path := filepath.Join(r.dir, slug+r.ext)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Post{}, &PostError{Slug: slug, Err: err}
	}

	raw, body, err := ParseFrontMatterBytes(data)
	if err != nil {
		return Post{}, &PostError{Slug: slug, Err: fmt.Errorf("%w: %w", errMalformed, err)}
	}
	meta, defaulted, err := DecodeMetadata(raw, r.now())
	if err != nil {
		return Post{}, &PostError{Slug: slug, Err: fmt.Errorf("%w: %w", errMalformed, err)}
	}
	if tags, ok := raw["tags"]; ok && tags != nil && meta.Tags == nil {
		r.logger.Warnf("post %s: tags is not a list of strings, ignoring", slug)
	}
	if err := r.compiler.Compile(body); err != nil {
		return Post{}, &PostError{Slug: slug, Err: fmt.Errorf("%w: %w", errInvalidBody, err)}
	}

	p := Post{
		Slug:      slug,
		Meta:      meta,
		Content:   string(body),
		Defaulted: defaulted,
	}
	if t, err := ParseDate(meta.Date); err == nil {
		p.Date = t
	}
	return p, nil
}

// SortByDate orders posts newest first. Posts whose dates cannot be compared
// keep their relative order.
func SortByDate(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].Date, posts[j].Date
		if a.IsZero() || b.IsZero() {
			return false
		}
		return a.After(b)
	})
}

// ListFiles returns the names of regular files in dir with the given
// extension, in directory-listing order.
func ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// SlugFromFile strips ext from a file name.
func SlugFromFile(name, ext string) string {
	return strings.TrimSuffix(filepath.Base(name), ext)
}

func validSlug(slug string) bool {
	if slug == "" || strings.HasPrefix(slug, ".") {
		return false
	}
	return !strings.ContainsAny(slug, `/\`)
}
