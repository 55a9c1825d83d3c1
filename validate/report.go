package validate

import (
	"fmt"
	"io"
	"strings"
)

// Report collects the results of a validation run.
type Report struct {
	Results []Result
}

// Failed returns the number of invalid files.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Valid {
			n++
		}
	}
	return n
}

// OK reports whether every file passed.
func (r Report) OK() bool {
	return r.Failed() == 0
}

// Write prints a per-file listing followed by a summary line.
func (r Report) Write(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\nValidating %d posts...\n\n", len(r.Results))
	for _, res := range r.Results {
		if !res.Valid {
			fmt.Fprintf(&b, "❌ %s\n", res.File)
			for _, e := range res.Errors {
				fmt.Fprintf(&b, "  - %s\n", e)
			}
			continue
		}
		tags := "None"
		if len(res.Post.Meta.Tags) > 0 {
			tags = strings.Join(res.Post.Meta.Tags, ", ")
		}
		cover := res.Post.Meta.CoverImage
		if cover == "" {
			cover = "None"
		}
		fmt.Fprintf(&b, "✅ %s\n", res.File)
		fmt.Fprintf(&b, "   Title: %s\n", res.Post.Meta.Title)
		fmt.Fprintf(&b, "   Date: %s\n", res.Post.Meta.Date)
		fmt.Fprintf(&b, "   Tags: %s\n", tags)
		fmt.Fprintf(&b, "   Cover: %s\n\n", cover)
	}
	if r.OK() {
		b.WriteString("\nAll posts are valid!\n")
	} else {
		fmt.Fprintf(&b, "\n%d of %d posts have validation errors. Please fix them before continuing.\n", r.Failed(), len(r.Results))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
