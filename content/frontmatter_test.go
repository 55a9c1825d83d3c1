package content

import (
	"strings"
	"testing"
	"time"
)

func TestParseFrontMatterRoundTrip(t *testing.T) {
	src := "---\ntitle: \"Hello World\"\ndate: \"2024-01-01\"\ntags: [\"a\", \"b\"]\n---\n# Hi\n"
	raw, body, err := ParseFrontMatter(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseFrontMatter failed: %v", err)
	}
	if raw["title"] != "Hello World" {
		t.Errorf("title = %v, want %q", raw["title"], "Hello World")
	}
	tags, ok := StringSlice(raw["tags"])
	if !ok || len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("tags = %v, want [a b]", raw["tags"])
	}
	if !strings.Contains(string(body), "# Hi") {
		t.Errorf("body = %q, want it to contain %q", body, "# Hi")
	}
	if strings.Contains(string(body), "title:") || strings.Contains(string(body), "---") {
		t.Errorf("body still contains front matter: %q", body)
	}
}

func TestParseFrontMatterWithoutBlock(t *testing.T) {
	src := "# Just a body\n\nNo metadata here.\n"
	raw, body, err := ParseFrontMatter(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseFrontMatter failed: %v", err)
	}
	if len(raw) != 0 {
		t.Errorf("raw = %v, want empty", raw)
	}
	if string(body) != src {
		t.Errorf("body = %q, want %q", body, src)
	}
}

func TestParseFrontMatterMalformed(t *testing.T) {
	src := "---\ntitle: [unclosed\n---\nbody\n"
	if _, _, err := ParseFrontMatter(strings.NewReader(src)); err == nil {
		t.Fatal("expected error for malformed front matter")
	}
}

func TestDecodeMetadataDefaults(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	meta, defaulted, err := DecodeMetadata(map[string]any{}, now)
	if err != nil {
		t.Fatalf("DecodeMetadata failed: %v", err)
	}
	if meta.Title != UntitledTitle {
		t.Errorf("Title = %q, want %q", meta.Title, UntitledTitle)
	}
	if meta.Date != "2024-05-06T07:08:09Z" {
		t.Errorf("Date = %q, want now", meta.Date)
	}
	if meta.Excerpt != "" || meta.Description != "" {
		t.Errorf("Excerpt/Description = %q/%q, want empty", meta.Excerpt, meta.Description)
	}
	want := []string{"title", "date", "excerpt", "description"}
	if strings.Join(defaulted, ",") != strings.Join(want, ",") {
		t.Errorf("defaulted = %v, want %v", defaulted, want)
	}
}

func TestDecodeMetadataOverlay(t *testing.T) {
	raw := map[string]any{
		"title":       "Post",
		"date":        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		"excerpt":     "short",
		"description": "long",
		"coverImage":  "/images/posts/post.jpg",
		"tags":        []any{"go", "web"},
		"draft":       true,
	}
	meta, defaulted, err := DecodeMetadata(raw, time.Now())
	if err != nil {
		t.Fatalf("DecodeMetadata failed: %v", err)
	}
	if len(defaulted) != 0 {
		t.Errorf("defaulted = %v, want none", defaulted)
	}
	if meta.Date != "2024-03-01" {
		t.Errorf("Date = %q, want %q", meta.Date, "2024-03-01")
	}
	if meta.CoverImage != "/images/posts/post.jpg" || !meta.Draft {
		t.Errorf("unexpected meta %+v", meta)
	}
	if len(meta.Tags) != 2 || meta.Tags[0] != "go" || meta.Tags[1] != "web" {
		t.Errorf("Tags = %v, want [go web]", meta.Tags)
	}
}

func TestDecodeMetadataRejectsListTitle(t *testing.T) {
	raw := map[string]any{"title": []any{"a"}}
	if _, _, err := DecodeMetadata(raw, time.Now()); err == nil {
		t.Fatal("expected error for list-valued title")
	}
}

func TestDecodeMetadataIgnoresScalarTags(t *testing.T) {
	raw := map[string]any{"title": "T", "date": "2024-01-01", "tags": "go"}
	meta, _, err := DecodeMetadata(raw, time.Now())
	if err != nil {
		t.Fatalf("DecodeMetadata failed: %v", err)
	}
	if meta.Tags != nil {
		t.Errorf("Tags = %v, want nil", meta.Tags)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"2024-01-15T10:30:00Z", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), true},
		{"2024-01-15 10:30:00", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), true},
		{"January 15, 2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{" 2024-01-15 ", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"not a date", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.input)
		if (err == nil) != tt.ok {
			t.Errorf("ParseDate(%q) error = %v, want ok=%v", tt.input, err, tt.ok)
			continue
		}
		if tt.ok && !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
