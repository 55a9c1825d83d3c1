package folio

import (
	"testing"
	"time"
)

func TestSiteConfigDefaults(t *testing.T) {
	var c SiteConfig
	c.setDefaults()
	if c.Name != "Folio" || c.Addr != ":3000" || c.ContentDir != "posts" || c.Ext != ".mdx" {
		t.Errorf("defaults = %+v", c)
	}
	if c.CacheTTL != 0 {
		t.Errorf("CacheTTL = %v, want 0 (caching off unless configured)", c.CacheTTL)
	}
	if c.AdminEnabled() {
		t.Error("admin enabled without a password")
	}

	c = SiteConfig{CacheTTL: -time.Second, Ext: ".md"}
	c.setDefaults()
	if c.CacheTTL != 0 || c.Ext != ".md" {
		t.Errorf("CacheTTL = %v, Ext = %q", c.CacheTTL, c.Ext)
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"blog", "post"}, "https://example.com/blog/post/"},
		{"https://example.com/", []string{"blog"}, "https://example.com/blog/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}

func TestPageNumber(t *testing.T) {
	tests := map[string]int{"": 1, "2": 2, "0": 1, "-3": 1, "abc": 1}
	for in, want := range tests {
		if got := pageNumber(in); got != want {
			t.Errorf("pageNumber(%q) = %d, want %d", in, got, want)
		}
	}
}
