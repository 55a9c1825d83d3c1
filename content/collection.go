package content

import (
	"math"
	"sort"
	"strings"
)

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// Tags returns the sorted, deduplicated, lowercased tags of posts.
func Tags(posts []Post) []string {
	set := make(map[string]struct{})
	for _, p := range posts {
		for _, t := range p.Meta.Tags {
			if t = normalizeTag(t); t != "" {
				set[t] = struct{}{}
			}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// FilterByTag returns the posts carrying tag, compared case-insensitively.
// An empty tag returns posts unchanged.
func FilterByTag(posts []Post, tag string) []Post {
	tag = normalizeTag(tag)
	if tag == "" {
		return posts
	}
	var out []Post
	for _, p := range posts {
		for _, t := range p.Meta.Tags {
			if normalizeTag(t) == tag {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Related returns up to limit posts other than current. Posts sharing a tag
// with current come first; the rest is filled with other posts in their
// existing order.
func Related(current Post, posts []Post, limit int) []Post {
	if limit <= 0 {
		return nil
	}
	tagSet := make(map[string]struct{})
	for _, t := range current.Meta.Tags {
		if t = normalizeTag(t); t != "" {
			tagSet[t] = struct{}{}
		}
	}

	var shared, rest []Post
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		match := false
		for _, t := range p.Meta.Tags {
			if _, ok := tagSet[normalizeTag(t)]; ok {
				match = true
				break
			}
		}
		if match {
			shared = append(shared, p)
		} else {
			rest = append(rest, p)
		}
	}

	related := append(shared, rest...)
	if len(related) > limit {
		related = related[:limit]
	}
	return related
}

// Page is one page of a post listing.
type Page struct {
	Posts      []Post
	Number     int
	TotalPages int
	Total      int
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// Paginate slices posts into pages of perPage and returns page number n.
// Out-of-range page numbers are clamped.
func Paginate(posts []Post, n, perPage int) Page {
	if perPage < 1 {
		perPage = 1
	}
	total := len(posts)
	pages := (total + perPage - 1) / perPage
	if pages == 0 {
		return Page{Number: 1, TotalPages: 1}
	}
	if n < 1 {
		n = 1
	}
	if n > pages {
		n = pages
	}
	start := (n - 1) * perPage
	end := min(start+perPage, total)
	return Page{
		Posts:      posts[start:end],
		Number:     n,
		TotalPages: pages,
		Total:      total,
	}
}

const wordsPerMinute = 200

// ReadingTime estimates the minutes needed to read body.
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 1
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}
