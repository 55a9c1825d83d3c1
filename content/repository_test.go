package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
	errs  []string
}

func (l *recordingLogger) Infof(format string, args ...interface{}) {}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.mu.Lock()
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	l.errs = append(l.errs, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func writePost(t *testing.T, dir, name, meta, body string) {
	t.Helper()
	src := body
	if meta != "" {
		src = "---\n" + meta + "\n---\n" + body
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newTestRepo(t *testing.T, dir string, opts ...Option) (*Repository, *recordingLogger) {
	t.Helper()
	logger := &recordingLogger{}
	opts = append([]Option{WithLogger(logger), WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewRepository(dir, opts...), logger
}

func slugs(posts []Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func TestAllPostsOrdersByDateDescending(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "post-b.mdx", "title: B\ndate: 2024-01-01", "b body\n")
	writePost(t, dir, "post-a.mdx", "title: A\ndate: 2024-03-01", "a body\n")

	repo, _ := newTestRepo(t, dir)
	posts, err := repo.AllPosts(context.Background())
	if err != nil {
		t.Fatalf("AllPosts failed: %v", err)
	}
	got := strings.Join(slugs(posts), ",")
	if got != "post-a,post-b" {
		t.Errorf("slugs = %s, want post-a,post-b", got)
	}
}

func TestAllPostsExcludesInvalidPosts(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "good.mdx", "title: Good\ndate: 2024-02-01", "ok\n")
	writePost(t, dir, "no-title.mdx", "date: 2024-02-01", "x\n")
	writePost(t, dir, "sentinel.mdx", "title: Untitled Post\ndate: 2024-02-01", "x\n")
	writePost(t, dir, "no-date.mdx", "title: Dateless", "x\n")
	writePost(t, dir, "bad-date.mdx", "title: Bad Date\ndate: someday", "x\n")
	writePost(t, dir, "malformed.mdx", "title: [unclosed", "x\n")
	writePost(t, dir, "bare.mdx", "", "# no front matter\n")
	writePost(t, dir, "notes.md", "title: Markdown\ndate: 2024-02-01", "x\n")
	if err := os.Mkdir(filepath.Join(dir, "drafts.mdx"), 0o755); err != nil {
		t.Fatal(err)
	}

	repo, logger := newTestRepo(t, dir)
	res, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := strings.Join(slugs(res.Posts), ","); got != "good" {
		t.Errorf("posts = %s, want good", got)
	}

	reasons := map[string]SkipReason{}
	for _, o := range res.Skipped() {
		reasons[o.Slug] = o.Reason
	}
	want := map[string]SkipReason{
		"no-title":  SkipMissingTitle,
		"sentinel":  SkipMissingTitle,
		"no-date":   SkipMissingDate,
		"bad-date":  SkipMissingDate,
		"malformed": SkipMalformed,
		"bare":      SkipMissingTitle,
	}
	if len(reasons) != len(want) {
		t.Errorf("skipped = %v, want %v", reasons, want)
	}
	for slug, reason := range want {
		if reasons[slug] != reason {
			t.Errorf("reason[%s] = %v, want %v", slug, reasons[slug], reason)
		}
	}
	if len(logger.errs) != 1 {
		t.Errorf("logged errors = %v, want one for the malformed file", logger.errs)
	}
	if len(logger.warns) == 0 {
		t.Error("expected warnings for skipped posts")
	}
}

func TestAllPostsSortedInvariant(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	order := []int{7, 2, 9, 0, 5, 3, 8, 1, 6, 4, 11, 10}
	for _, n := range order {
		date := base.AddDate(0, 0, n*3).Format("2006-01-02")
		writePost(t, dir, fmt.Sprintf("p%02d.mdx", n), "title: P\ndate: "+date, "body\n")
	}

	repo, _ := newTestRepo(t, dir, WithConcurrency(3))
	posts, err := repo.AllPosts(context.Background())
	if err != nil {
		t.Fatalf("AllPosts failed: %v", err)
	}
	if len(posts) != len(order) {
		t.Fatalf("got %d posts, want %d", len(posts), len(order))
	}
	for i := 0; i+1 < len(posts); i++ {
		if posts[i].Date.Before(posts[i+1].Date) {
			t.Errorf("posts[%d] (%s) older than posts[%d] (%s)", i, posts[i].Meta.Date, i+1, posts[i+1].Meta.Date)
		}
	}
}

func TestAllPostsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "one.mdx", "title: One\ndate: 2024-01-01", "x\n")
	writePost(t, dir, "two.mdx", "title: Two\ndate: 2024-01-01", "x\n")
	writePost(t, dir, "three.mdx", "title: Three\ndate: 2024-05-01", "x\n")

	repo, _ := newTestRepo(t, dir)
	first, err := repo.AllPosts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := repo.AllPosts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(slugs(first), ",") != strings.Join(slugs(second), ",") {
		t.Errorf("first = %v, second = %v", slugs(first), slugs(second))
	}
}

func TestAllPostsReflectsChangesOnNextCall(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "one.mdx", "title: One\ndate: 2024-01-01", "x\n")
	repo, _ := newTestRepo(t, dir)
	if posts, _ := repo.AllPosts(context.Background()); len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}
	writePost(t, dir, "two.mdx", "title: Two\ndate: 2024-02-01", "x\n")
	posts, _ := repo.AllPosts(context.Background())
	if got := strings.Join(slugs(posts), ","); got != "two,one" {
		t.Errorf("slugs = %s, want two,one", got)
	}
}

func TestAllPostsMissingDirectory(t *testing.T) {
	repo, _ := newTestRepo(t, filepath.Join(t.TempDir(), "missing"))
	if _, err := repo.AllPosts(context.Background()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestAllPostsCancelledContext(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "one.mdx", "title: One\ndate: 2024-01-01", "x\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo, _ := newTestRepo(t, dir)
	if _, err := repo.AllPosts(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLoadInvalidBody(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "broken.mdx", "title: Broken\ndate: 2024-01-01", "<Unclosed\n")
	writePost(t, dir, "fine.mdx", "title: Fine\ndate: 2024-01-01", "ok\n")
	compiler := CompilerFunc(func(src []byte) error {
		if strings.Contains(string(src), "<Unclosed") {
			return errors.New("unexpected end of component")
		}
		return nil
	})

	repo, _ := newTestRepo(t, dir, WithCompiler(compiler))
	res, err := repo.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(slugs(res.Posts), ","); got != "fine" {
		t.Errorf("posts = %s, want fine", got)
	}
	skipped := res.Skipped()
	if len(skipped) != 1 || skipped[0].Reason != SkipInvalidBody || skipped[0].Err == nil {
		t.Errorf("skipped = %+v, want one invalid body", skipped)
	}
}

func TestLoadRejectsBrokenComponentMarkup(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "broken.mdx", "title: Broken\ndate: 2024-01-01", "<Callout type=\"x\"\n{unclosed expression\n</NotOpened>\n")
	writePost(t, dir, "unclosed.mdx", "title: Unclosed\ndate: 2024-01-02", "<Callout>\n\nbody\n")
	writePost(t, dir, "fine.mdx", "title: Fine\ndate: 2024-01-03", "<Callout>\n\nok {1 + 1}\n\n</Callout>\n")

	repo, logger := newTestRepo(t, dir)
	res, err := repo.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(slugs(res.Posts), ","); got != "fine" {
		t.Errorf("posts = %s, want fine", got)
	}
	skipped := res.Skipped()
	if len(skipped) != 2 {
		t.Fatalf("skipped = %+v, want two", skipped)
	}
	for _, o := range skipped {
		if o.Reason != SkipInvalidBody {
			t.Errorf("%s: reason = %v, want SkipInvalidBody", o.File, o.Reason)
		}
	}
	if len(logger.errs) != 2 {
		t.Errorf("logged errors = %v, want two", logger.errs)
	}
}

func TestPostBySlugRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "hello-world.mdx", "title: \"Hello World\"\ndate: \"2024-01-01\"\ntags: [\"a\", \"b\"]", "# Hi\n")

	repo, _ := newTestRepo(t, dir)
	p, err := repo.PostBySlug(context.Background(), "hello-world")
	if err != nil {
		t.Fatalf("PostBySlug failed: %v", err)
	}
	if p.Slug != "hello-world" {
		t.Errorf("Slug = %q", p.Slug)
	}
	if p.Meta.Title != "Hello World" {
		t.Errorf("Title = %q, want %q", p.Meta.Title, "Hello World")
	}
	if len(p.Meta.Tags) != 2 || p.Meta.Tags[0] != "a" || p.Meta.Tags[1] != "b" {
		t.Errorf("Tags = %v, want [a b]", p.Meta.Tags)
	}
	if !strings.Contains(p.Content, "# Hi") || strings.Contains(p.Content, "title:") {
		t.Errorf("Content = %q", p.Content)
	}
	if !p.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v", p.Date)
	}
	if p.Link() != "/blog/hello-world/" {
		t.Errorf("Link = %q", p.Link())
	}
}

func TestPostBySlugAcceptsExtension(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "post.mdx", "title: P\ndate: 2024-01-01", "x\n")
	repo, _ := newTestRepo(t, dir)
	p, err := repo.PostBySlug(context.Background(), "post.mdx")
	if err != nil {
		t.Fatalf("PostBySlug failed: %v", err)
	}
	if p.Slug != "post" {
		t.Errorf("Slug = %q, want post", p.Slug)
	}
}

func TestPostBySlugDefaults(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "bare.mdx", "", "just text\n")
	repo, _ := newTestRepo(t, dir)
	p, err := repo.PostBySlug(context.Background(), "bare")
	if err != nil {
		t.Fatalf("PostBySlug failed: %v", err)
	}
	if p.Meta.Title != UntitledTitle {
		t.Errorf("Title = %q", p.Meta.Title)
	}
	if !p.Date.Equal(fixedNow) {
		t.Errorf("Date = %v, want %v", p.Date, fixedNow)
	}
	if p.Content != "just text\n" {
		t.Errorf("Content = %q", p.Content)
	}
}

func TestPostBySlugNotFound(t *testing.T) {
	dir := t.TempDir()
	repo, _ := newTestRepo(t, dir)
	for _, slug := range []string{"missing", "../etc/passwd", "a/b", ".hidden", ""} {
		_, err := repo.PostBySlug(context.Background(), slug)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("PostBySlug(%q) err = %v, want ErrNotFound", slug, err)
			continue
		}
		var perr *PostError
		if !errors.As(err, &perr) {
			t.Errorf("PostBySlug(%q) err = %T, want *PostError", slug, err)
			continue
		}
		if slug == "missing" && perr.Slug != "missing" {
			t.Errorf("PostError.Slug = %q, want missing", perr.Slug)
		}
		if slug == "missing" && !strings.Contains(err.Error(), "missing") {
			t.Errorf("error %q does not name the slug", err)
		}
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "b.mdx", "", "x")
	writePost(t, dir, "a.mdx", "", "x")
	writePost(t, dir, "c.txt", "", "x")
	names, err := ListFiles(dir, ".mdx")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(names, ",") != "a.mdx,b.mdx" {
		t.Errorf("names = %v", names)
	}
}

func TestWithExt(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "post.md", "title: P\ndate: 2024-01-01", "x\n")
	repo, _ := newTestRepo(t, dir, WithExt("md"))
	posts, err := repo.AllPosts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 || posts[0].Slug != "post" {
		t.Errorf("posts = %v", slugs(posts))
	}
}
