// Package markdown renders post bodies to HTML with goldmark and exposes the
// result as a templ component.
package markdown

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
		renderer.WithNodeRenderers(
			util.Prioritized(&codeBlockRenderer{}, 100),
		),
	),
)

// Render writes the HTML form of src to w.
func Render(w io.Writer, src []byte) error {
	return md.Convert(src, w)
}

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := Render(&buf, []byte(content)); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Heading is an entry of a post's table of contents.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Headings returns the h2 and h3 headings of src with their generated IDs.
func Headings(src []byte) []Heading {
	doc := md.Parser().Parse(text.NewReader(src))
	var out []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Level == 2 || h.Level == 3 {
			var id string
			if v, ok := h.AttributeString("id"); ok {
				if b, ok := v.([]byte); ok {
					id = string(b)
				}
			}
			out = append(out, Heading{Level: h.Level, ID: id, Text: nodeText(h, src)})
		}
		return ast.WalkSkipChildren, nil
	})
	return out
}

func nodeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(nodeText(c, src))
		}
	}
	return buf.String()
}

// codeBlockRenderer wraps fenced code in a container with a language badge.
type codeBlockRenderer struct{}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	lang := util.EscapeHTML(n.Language(source))
	if len(lang) > 0 {
		_, _ = w.WriteString(`<div class="code-block-wrapper"><span class="code-lang code-lang-`)
		_, _ = w.Write(lang)
		_, _ = w.WriteString(`">`)
		_, _ = w.Write(lang)
		_, _ = w.WriteString(`</span><pre class="code-block"><code class="language-`)
		_, _ = w.Write(lang)
		_, _ = w.WriteString(`">`)
	} else {
		_, _ = w.WriteString(`<pre class="code-block"><code>`)
	}
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(line.Value(source)))
	}
	_, _ = w.WriteString("</code></pre>")
	if len(lang) > 0 {
		_, _ = w.WriteString("</div>")
	}
	_ = w.WriteByte('\n')
	return ast.WalkContinue, nil
}
