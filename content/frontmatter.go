package content

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// UntitledTitle is the fallback title applied when a post has none. Posts
// that still carry it after decoding are never listed.
const UntitledTitle = "Untitled Post"

// Metadata is the typed front-matter schema of a post.
type Metadata struct {
	Title       string
	Date        string
	Excerpt     string
	Description string
	CoverImage  string
	Tags        []string
	Draft       bool
}

// ParseFrontMatter splits raw file text into its front-matter block and body.
// Text without a front-matter block yields an empty map and the full text as
// body. Malformed front matter is returned as an error.
func ParseFrontMatter(r io.Reader) (map[string]any, []byte, error) {
	var raw map[string]any
	body, err := frontmatter.Parse(r, &raw)
	if err != nil {
		return nil, nil, fmt.Errorf("parse front matter: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, body, nil
}

// ParseFrontMatterBytes is ParseFrontMatter over an in-memory file.
func ParseFrontMatterBytes(b []byte) (map[string]any, []byte, error) {
	return ParseFrontMatter(bytes.NewReader(b))
}

// DecodeMetadata converts a raw front-matter map into Metadata. Defaults are
// applied first (title, date, excerpt, description) and then overlaid with
// whatever the map carries. The returned slice names the fields that kept
// their default value.
func DecodeMetadata(raw map[string]any, now time.Time) (Metadata, []string, error) {
	meta := Metadata{
		Title: UntitledTitle,
		Date:  now.UTC().Format(time.RFC3339),
	}
	var defaulted []string

	if v, ok, err := StringField(raw, "title"); err != nil {
		return Metadata{}, nil, err
	} else if ok && strings.TrimSpace(v) != "" {
		meta.Title = strings.TrimSpace(v)
	} else {
		defaulted = append(defaulted, "title")
	}

	if v, ok, err := StringField(raw, "date"); err != nil {
		return Metadata{}, nil, err
	} else if ok && strings.TrimSpace(v) != "" {
		meta.Date = strings.TrimSpace(v)
	} else {
		defaulted = append(defaulted, "date")
	}

	if v, ok, err := StringField(raw, "excerpt"); err != nil {
		return Metadata{}, nil, err
	} else if ok {
		meta.Excerpt = v
	} else {
		defaulted = append(defaulted, "excerpt")
	}

	if v, ok, err := StringField(raw, "description"); err != nil {
		return Metadata{}, nil, err
	} else if ok {
		meta.Description = v
	} else {
		defaulted = append(defaulted, "description")
	}

	if v, ok, err := StringField(raw, "coverImage"); err != nil {
		return Metadata{}, nil, err
	} else if ok {
		meta.CoverImage = v
	}

	if tags, ok := raw["tags"]; ok && tags != nil {
		meta.Tags, _ = StringSlice(tags)
	}

	if d, ok := raw["draft"].(bool); ok {
		meta.Draft = d
	}

	return meta, defaulted, nil
}

// StringSlice reports whether v is a YAML sequence of strings and returns it.
// Non-string elements make the whole value invalid.
func StringSlice(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// StringField reads key from raw as a string. YAML timestamps and plain
// scalars are rendered back to text; sequences and mappings are errors.
func StringField(raw map[string]any, key string) (string, bool, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", false, nil
	}
	switch val := v.(type) {
	case string:
		return val, true, nil
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02"), true, nil
		}
		return val.Format(time.RFC3339), true, nil
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(val), true, nil
	}
	return "", false, fmt.Errorf("front matter field %q: unexpected %T", key, v)
}

var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate parses a front-matter date in any of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
