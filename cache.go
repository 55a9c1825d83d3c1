package folio

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/folio/content"
)

// ErrNotFound is returned when a requested post is not listed.
var ErrNotFound = content.ErrNotFound

// PostSource loads the full post listing. *content.Repository implements it.
type PostSource interface {
	Load(ctx context.Context) (content.LoadResult, error)
}

// PostCache is an in-memory cache of the post listing and tags with TTL.
// A zero TTL disables caching.
type PostCache struct {
	mu      sync.RWMutex
	result  *content.LoadResult
	tags    []string
	fetched time.Time
	ttl     time.Duration
	source  PostSource
	now     func() time.Time
}

// NewPostCache creates a PostCache backed by the given source.
func NewPostCache(s PostSource, ttl time.Duration) *PostCache {
	return &PostCache{source: s, ttl: ttl, now: time.Now}
}

func (c *PostCache) valid() bool {
	return c.result != nil && c.ttl > 0 && c.now().Sub(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.result = nil
	c.tags = nil
	c.mu.Unlock()
}

func (c *PostCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	res, err := c.source.Load(ctx)
	if err != nil {
		return err
	}
	c.result = &res
	c.tags = content.Tags(res.Posts)
	c.fetched = c.now()
	return nil
}

// ensureLoaded returns the cached load result and tags after ensuring the
// cache is fresh. It tries a read lock first; only takes a write lock if a
// reload is needed.
func (c *PostCache) ensureLoaded(ctx context.Context) (content.LoadResult, []string, error) {
	c.mu.RLock()
	if c.valid() {
		res, tags := *c.result, c.tags
		c.mu.RUnlock()
		return res, tags, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return content.LoadResult{}, nil, err
	}
	return *c.result, c.tags, nil
}

// Result returns the full load result, including skipped files.
func (c *PostCache) Result(ctx context.Context) (content.LoadResult, error) {
	res, _, err := c.ensureLoaded(ctx)
	return res, err
}

// ListPosts returns listed posts newest first, optionally filtered by tag.
func (c *PostCache) ListPosts(ctx context.Context, tag string) ([]content.Post, error) {
	res, _, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return content.FilterByTag(res.Posts, tag), nil
}

// ListTags returns all unique tags of listed posts.
func (c *PostCache) ListTags(ctx context.Context) ([]string, error) {
	_, tags, err := c.ensureLoaded(ctx)
	return tags, err
}

// GetPost returns a single listed post by slug.
func (c *PostCache) GetPost(ctx context.Context, slug string) (content.Post, error) {
	res, _, err := c.ensureLoaded(ctx)
	if err != nil {
		return content.Post{}, err
	}
	for _, p := range res.Posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return content.Post{}, &content.PostError{Slug: slug, Err: ErrNotFound}
}
