// Package scaffold creates new sites and new posts from embedded templates.
package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

// ErrExists is returned when a scaffold would overwrite an existing path.
var ErrExists = errors.New("already exists")

const siteRoot = "templates/site"

// SiteData holds the template variables passed to every site template.
type SiteData struct {
	SiteName string
	Date     string
}

// SiteName converts a hyphenated directory name to a title-case site name,
// e.g. "my-blog" -> "My Blog".
func SiteName(dir string) string {
	name := strings.NewReplacer("-", " ", "_", " ").Replace(filepath.Base(dir))
	return cases.Title(language.English).String(name)
}

// NewSite writes a starter site into dir, which must not exist yet. It
// returns the paths it created.
func NewSite(dir string, now time.Time) ([]string, error) {
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("directory %q: %w", dir, ErrExists)
	}
	data := SiteData{
		SiteName: SiteName(dir),
		Date:     now.Format(dateLayout),
	}

	var created []string
	err := fs.WalkDir(Templates, siteRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(siteRoot, path)
		if err != nil {
			return err
		}
		outPath := strings.TrimSuffix(filepath.Join(dir, relPath), ".tmpl")

		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		src, err := Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		tmpl, err := template.New(filepath.Base(path)).Parse(string(src))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()

		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", path, err)
		}
		created = append(created, outPath)
		return nil
	})
	if err != nil {
		return created, err
	}

	images := filepath.Join(dir, "public", "images", "posts")
	if err := os.MkdirAll(images, 0o755); err != nil {
		return created, err
	}
	return append(created, images), nil
}
