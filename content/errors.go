package content

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned (wrapped in a *PostError) when no content file backs
// the requested slug.
var ErrNotFound = errors.New("post not found")

// PostError identifies the slug a load failure belongs to.
type PostError struct {
	Slug string
	Err  error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("failed to load post %q: %v", e.Slug, e.Err)
}

func (e *PostError) Unwrap() error {
	return e.Err
}

// SkipReason classifies why a content file produced no Post.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipUnreadable
	SkipMalformed
	SkipInvalidBody
	SkipMissingTitle
	SkipMissingDate
)

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipUnreadable:
		return "unreadable"
	case SkipMalformed:
		return "malformed front matter"
	case SkipInvalidBody:
		return "invalid body"
	case SkipMissingTitle:
		return "missing title"
	case SkipMissingDate:
		return "missing date"
	}
	return fmt.Sprintf("SkipReason(%d)", int(r))
}

var (
	errMalformed   = errors.New("malformed front matter")
	errInvalidBody = errors.New("invalid body")
)
