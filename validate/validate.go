// Package validate checks post files against the publishing rules: every
// display field present, a parseable date, a cover image that exists on disk,
// and tags given as a list.
//
// These rules are stricter than the ones applied when posts are listed and
// are meant to run before publishing, not while serving.
package validate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/eringen/folio/content"
)

// RequiredFields are the front-matter keys every post must set.
var RequiredFields = []string{"title", "date", "excerpt", "description", "tags", "coverImage"}

// Result is the validation outcome of one file.
type Result struct {
	File   string
	Slug   string
	Valid  bool
	Errors []string
	Post   content.Post
}

// Validator checks post files in a content directory.
type Validator struct {
	contentDir string
	publicDir  string
	ext        string
	logger     content.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithExt sets the post file extension.
func WithExt(ext string) Option {
	return func(v *Validator) { v.ext = ext }
}

// WithLogger sets the logger.
func WithLogger(l content.Logger) Option {
	return func(v *Validator) { v.logger = l }
}

// New returns a Validator. Cover image paths are resolved against publicDir.
func New(contentDir, publicDir string, opts ...Option) *Validator {
	v := &Validator{
		contentDir: contentDir,
		publicDir:  publicDir,
		ext:        content.DefaultExt,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = content.NewLogger("validate")
	}
	return v
}

// ValidateAll validates every post file in the content directory.
func (v *Validator) ValidateAll(ctx context.Context) (Report, error) {
	if _, err := os.Stat(v.contentDir); err != nil {
		return Report{}, fmt.Errorf("posts directory not found: %w", err)
	}
	files, err := content.ListFiles(v.contentDir, v.ext)
	if err != nil {
		return Report{}, fmt.Errorf("list posts: %w", err)
	}
	v.logger.Infof("validating %d posts", len(files))

	report := Report{Results: make([]Result, 0, len(files))}
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Results = append(report.Results, v.ValidateFile(filepath.Join(v.contentDir, name)))
	}
	return report, nil
}

// ValidateFile validates a single post file.
func (v *Validator) ValidateFile(path string) Result {
	res := Result{
		File: filepath.Base(path),
		Slug: content.SlugFromFile(path, v.ext),
	}
	res.Post.Slug = res.Slug

	data, err := os.ReadFile(path)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("Unable to read file: %v", err))
		return res
	}
	raw, body, err := content.ParseFrontMatterBytes(data)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("Invalid front matter: %v", err))
		return res
	}
	res.Post.Content = string(body)
	res.Post.Meta = partialMetadata(raw)

	for _, field := range RequiredFields {
		if !present(raw[field]) {
			res.Errors = append(res.Errors, "Missing required field: "+field)
		}
	}

	if present(raw["date"]) {
		date := scalarString(raw["date"])
		if t, err := content.ParseDate(date); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", date))
		} else {
			res.Post.Date = t
		}
	}

	if cover, ok := raw["coverImage"].(string); ok && cover != "" {
		if !v.assetExists(cover) {
			res.Errors = append(res.Errors, "Cover image not found: "+cover)
		}
	}

	if present(raw["tags"]) {
		if _, ok := content.StringSlice(raw["tags"]); !ok {
			res.Errors = append(res.Errors, "Tags must be an array of strings")
		}
	}

	res.Valid = len(res.Errors) == 0
	return res
}

func (v *Validator) assetExists(p string) bool {
	rel := filepath.FromSlash(strings.TrimPrefix(p, "/"))
	full := filepath.Join(v.publicDir, rel)
	if !strings.HasPrefix(full, filepath.Clean(v.publicDir)+string(filepath.Separator)) {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.Mode().IsRegular()
}

// present reports whether a front-matter value counts as set: nil, empty
// strings, false and zero are treated as missing.
func present(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case int:
		return val != 0
	case int64:
		return val != 0
	case uint64:
		return val != 0
	case float64:
		return val != 0
	}
	return true
}

func scalarString(v any) string {
	s, _, err := content.StringField(map[string]any{"value": v}, "value")
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

func partialMetadata(raw map[string]any) content.Metadata {
	var m content.Metadata
	m.Title, _ = raw["title"].(string)
	m.Excerpt, _ = raw["excerpt"].(string)
	m.Description, _ = raw["description"].(string)
	m.CoverImage, _ = raw["coverImage"].(string)
	m.Tags, _ = content.StringSlice(raw["tags"])
	m.Draft, _ = raw["draft"].(bool)
	if present(raw["date"]) {
		m.Date = scalarString(raw["date"])
	}
	return m
}
