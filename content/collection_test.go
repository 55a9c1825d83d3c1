package content

import (
	"strings"
	"testing"
)

func post(slug string, tags ...string) Post {
	return Post{Slug: slug, Meta: Metadata{Title: slug, Tags: tags}}
}

func TestTags(t *testing.T) {
	posts := []Post{post("a", "Go", "web"), post("b", "go ", "rust"), post("c")}
	got := Tags(posts)
	if strings.Join(got, ",") != "go,rust,web" {
		t.Errorf("Tags = %v, want [go rust web]", got)
	}
}

func TestFilterByTag(t *testing.T) {
	posts := []Post{post("a", "Go"), post("b", "rust"), post("c", "go", "web")}
	tests := []struct {
		tag  string
		want string
	}{
		{"go", "a,c"},
		{" GO ", "a,c"},
		{"rust", "b"},
		{"python", ""},
		{"", "a,b,c"},
	}
	for _, tt := range tests {
		got := strings.Join(slugs(FilterByTag(posts, tt.tag)), ",")
		if got != tt.want {
			t.Errorf("FilterByTag(%q) = %s, want %s", tt.tag, got, tt.want)
		}
	}
}

func TestRelated(t *testing.T) {
	current := post("current", "go", "web")
	posts := []Post{
		post("current", "go"),
		post("p1", "rust"),
		post("p2", "Go"),
		post("p3", "python"),
		post("p4", "web"),
	}
	got := strings.Join(slugs(Related(current, posts, 3)), ",")
	if got != "p2,p4,p1" {
		t.Errorf("Related = %s, want p2,p4,p1", got)
	}
	if r := Related(current, posts, 0); r != nil {
		t.Errorf("Related with limit 0 = %v, want nil", r)
	}
	if r := Related(current, []Post{current}, 3); len(r) != 0 {
		t.Errorf("Related with only current = %v, want empty", slugs(r))
	}
}

func TestPaginate(t *testing.T) {
	var posts []Post
	for _, s := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		posts = append(posts, post(s))
	}
	tests := []struct {
		page      int
		wantSlugs string
		wantNum   int
		hasPrev   bool
		hasNext   bool
	}{
		{1, "a,b,c", 1, false, true},
		{2, "d,e,f", 2, true, true},
		{3, "g", 3, true, false},
		{9, "g", 3, true, false},
		{0, "a,b,c", 1, false, true},
	}
	for _, tt := range tests {
		p := Paginate(posts, tt.page, 3)
		if got := strings.Join(slugs(p.Posts), ","); got != tt.wantSlugs {
			t.Errorf("Paginate(page %d) = %s, want %s", tt.page, got, tt.wantSlugs)
		}
		if p.Number != tt.wantNum || p.TotalPages != 3 || p.Total != 7 {
			t.Errorf("Paginate(page %d) = %+v", tt.page, p)
		}
		if p.HasPrev() != tt.hasPrev || p.HasNext() != tt.hasNext {
			t.Errorf("Paginate(page %d) prev/next = %v/%v", tt.page, p.HasPrev(), p.HasNext())
		}
	}

	empty := Paginate(nil, 2, 6)
	if empty.Number != 1 || empty.TotalPages != 1 || len(empty.Posts) != 0 {
		t.Errorf("Paginate(nil) = %+v", empty)
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 1},
		{1, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
	}
	for _, tt := range tests {
		body := strings.Repeat("word ", tt.words)
		if got := ReadingTime(body); got != tt.want {
			t.Errorf("ReadingTime(%d words) = %d, want %d", tt.words, got, tt.want)
		}
	}
}
