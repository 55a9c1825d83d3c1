package cover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/eringen/folio/content"
)

// ImageDir is where cover images live, relative to the public directory.
const ImageDir = "images/posts"

// PublicPath returns the root-relative URL of a post's cover image.
func PublicPath(slug string) string {
	return "/" + path.Join(ImageDir, FileName(slug))
}

var coverLine = regexp.MustCompile(`(?m)^coverImage:.*$`)

// Filler generates missing cover images for every post in a directory and
// points each post's coverImage at the new file.
type Filler struct {
	contentDir string
	publicDir  string
	ext        string
	opts       Options
	logger     content.Logger
}

// FillerOption configures a Filler.
type FillerOption func(*Filler)

// WithExt sets the post file extension.
func WithExt(ext string) FillerOption {
	return func(f *Filler) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.ext = ext
	}
}

// WithOptions sets the drawing options.
func WithOptions(o Options) FillerOption {
	return func(f *Filler) { f.opts = o }
}

// WithLogger sets the logger.
func WithLogger(l content.Logger) FillerOption {
	return func(f *Filler) { f.logger = l }
}

// NewFiller returns a Filler reading posts from contentDir and writing
// images under publicDir.
func NewFiller(contentDir, publicDir string, opts ...FillerOption) *Filler {
	f := &Filler{
		contentDir: contentDir,
		publicDir:  publicDir,
		ext:        content.DefaultExt,
		opts:       DefaultOptions(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = content.NewLogger("cover")
	}
	return f
}

// FillResult lists what a run did, by post file name.
type FillResult struct {
	Generated []string
	Skipped   []string
	Failed    []string
}

// Run generates a cover for each post that has a title and no image on disk
// yet. Per-file failures are logged and recorded; only a listing failure or
// cancellation aborts the run.
func (f *Filler) Run(ctx context.Context) (FillResult, error) {
	var res FillResult
	files, err := content.ListFiles(f.contentDir, f.ext)
	if err != nil {
		return res, fmt.Errorf("list posts: %w", err)
	}
	imagesDir := filepath.Join(f.publicDir, filepath.FromSlash(ImageDir))
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return res, fmt.Errorf("create images dir: %w", err)
	}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		generated, err := f.fill(filepath.Join(f.contentDir, name), imagesDir)
		switch {
		case err != nil:
			f.logger.Errorf("cover for %s: %v", name, err)
			res.Failed = append(res.Failed, name)
		case generated:
			res.Generated = append(res.Generated, name)
		default:
			res.Skipped = append(res.Skipped, name)
		}
	}
	return res, nil
}

func (f *Filler) fill(postPath, imagesDir string) (bool, error) {
	data, err := os.ReadFile(postPath)
	if err != nil {
		return false, err
	}
	raw, _, err := content.ParseFrontMatterBytes(data)
	if err != nil {
		return false, err
	}
	title, _, err := content.StringField(raw, "title")
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(title) == "" {
		return false, nil
	}

	slug := content.SlugFromFile(postPath, f.ext)
	out := filepath.Join(imagesDir, FileName(slug))
	if _, err := os.Stat(out); err == nil {
		f.logger.Infof("skipping (exists): %s", out)
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	var buf bytes.Buffer
	if err := Generate(&buf, title, f.opts); err != nil {
		return false, err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return false, err
	}
	f.logger.Infof("generated: %s", out)

	updated := setCoverImage(data, PublicPath(slug))
	if bytes.Equal(updated, data) {
		return true, nil
	}
	info, err := os.Stat(postPath)
	if err != nil {
		return true, err
	}
	if err := os.WriteFile(postPath, updated, info.Mode().Perm()); err != nil {
		return true, err
	}
	f.logger.Infof("updated front matter in: %s", filepath.Base(postPath))
	return true, nil
}

// setCoverImage rewrites the first coverImage line of the front-matter
// block. Lines in the body are never touched.
func setCoverImage(data []byte, value string) []byte {
	end := frontMatterEnd(data)
	if end < 0 {
		return data
	}
	loc := coverLine.FindIndex(data[:end])
	if loc == nil {
		return data
	}
	line := fmt.Sprintf("coverImage: %q", value)
	out := make([]byte, 0, len(data)+len(line))
	out = append(out, data[:loc[0]]...)
	out = append(out, line...)
	return append(out, data[loc[1]:]...)
}

// frontMatterEnd returns the offset of the closing "---" line of the
// front-matter block, or -1 when data does not open with one.
func frontMatterEnd(data []byte) int {
	first := bytes.IndexByte(data, '\n')
	if first < 0 || strings.TrimRight(string(data[:first]), "\r ") != "---" {
		return -1
	}
	for off := first + 1; off < len(data); {
		line := data[off:]
		next := len(data)
		if nl := bytes.IndexByte(line, '\n'); nl >= 0 {
			line = line[:nl]
			next = off + nl + 1
		}
		if strings.TrimRight(string(line), "\r ") == "---" {
			return off
		}
		off = next
	}
	return -1
}
