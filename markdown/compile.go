package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// SyntaxError reports component markup in a post body that cannot render.
// Line is counted from the start of the body.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Compile parses src and checks its component markup: every tag must be
// closed in order, no tag may be cut off before its closing bracket, and
// every {expression} must be terminated. Code spans and code blocks are not
// checked.
func Compile(src []byte) error {
	doc := md.Parser().Parse(text.NewReader(src))
	c := &checker{src: src}
	if err := ast.Walk(doc, c.visit); err != nil {
		return err
	}
	return c.finish()
}

var (
	tagPattern = regexp.MustCompile(`<!--[\s\S]*?-->|<(/?)(?:([A-Za-z][\w.:-]*)(\s[^<>]*?)?)?(/?)>`)

	// Lowercase HTML elements that never take a closing tag.
	voidElements = map[string]bool{
		"area": true, "base": true, "br": true, "col": true, "embed": true,
		"hr": true, "img": true, "input": true, "link": true, "meta": true,
		"source": true, "track": true, "wbr": true,
	}
)

type openTag struct {
	name string
	line int
}

type checker struct {
	src   []byte
	stack []openTag
}

func (c *checker) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	switch node := n.(type) {
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.CodeSpan, *ast.AutoLink:
		return ast.WalkSkipChildren, nil
	case *ast.HTMLBlock:
		var buf bytes.Buffer
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(c.src))
		}
		if node.HasClosure() {
			buf.Write(node.ClosureLine.Value(c.src))
		}
		line := 1
		if lines.Len() > 0 {
			line = c.lineAt(lines.At(0).Start)
		}
		// Raw text elements hold script or style bodies.
		return ast.WalkSkipChildren, c.tags(buf.String(), line, node.HTMLBlockType != ast.HTMLBlockType1)
	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			buf.Write(seg.Value(c.src))
		}
		line := 1
		if node.Segments.Len() > 0 {
			line = c.lineAt(node.Segments.At(0).Start)
		}
		return ast.WalkSkipChildren, c.tags(buf.String(), line, false)
	}
	if n.Type() == ast.TypeBlock && n.FirstChild() != nil && n.FirstChild().Type() == ast.TypeInline {
		if err := c.inline(n); err != nil {
			return ast.WalkStop, err
		}
	}
	return ast.WalkContinue, nil
}

// inline checks the plain text of a block holding inline content.
func (c *checker) inline(block ast.Node) error {
	var buf bytes.Buffer
	start := -1
	c.plainText(block, &buf, &start)
	if start < 0 {
		return nil
	}
	line := c.lineAt(start)
	s := buf.String()
	depth, opened := 0, 0
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch == '\\':
			i++
		case ch == '\n':
			line++
		case ch == '{':
			if depth == 0 {
				opened = line
			}
			depth++
		case ch == '}':
			if depth > 0 {
				depth--
			}
		case ch == '<' && depth == 0 && i+1 < len(s) && isTagStart(s[i+1]):
			return &SyntaxError{Line: line, Msg: fmt.Sprintf("unterminated tag %s", tagPrefix(s[i:]))}
		}
	}
	if depth > 0 {
		return &SyntaxError{Line: opened, Msg: "unterminated expression, expected }"}
	}
	return nil
}

func (c *checker) plainText(n ast.Node, buf *bytes.Buffer, start *int) {
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		switch t := ch.(type) {
		case *ast.CodeSpan, *ast.RawHTML, *ast.AutoLink:
			buf.WriteByte(' ')
		case *ast.Text:
			if *start < 0 {
				*start = t.Segment.Start
			}
			buf.Write(t.Segment.Value(c.src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			c.plainText(ch, buf, start)
		}
	}
}

// tags matches the opening and closing tags in s against the open stack.
// With leftovers set, a '<' that starts no complete tag is an error.
func (c *checker) tags(s string, line int, leftovers bool) error {
	last := 0
	for _, m := range tagPattern.FindAllStringSubmatchIndex(s, -1) {
		at := line + strings.Count(s[:m[0]], "\n")
		if leftovers {
			if err := strayTag(s[last:m[0]], line+strings.Count(s[:last], "\n")); err != nil {
				return err
			}
		}
		last = m[1]
		if strings.HasPrefix(s[m[0]:], "<!--") {
			continue
		}
		closing := m[3] > m[2]
		name := ""
		if m[4] >= 0 {
			name = s[m[4]:m[5]]
		}
		selfClosing := m[9] > m[8]
		if selfClosing || voidElements[name] {
			continue
		}
		if !closing {
			c.stack = append(c.stack, openTag{name: name, line: at})
			continue
		}
		if len(c.stack) == 0 {
			return &SyntaxError{Line: at, Msg: fmt.Sprintf("unexpected closing tag </%s>", name)}
		}
		top := c.stack[len(c.stack)-1]
		if top.name != name {
			return &SyntaxError{Line: at, Msg: fmt.Sprintf("expected closing tag </%s> for <%s> on line %d, found </%s>", top.name, top.name, top.line, name)}
		}
		c.stack = c.stack[:len(c.stack)-1]
	}
	if leftovers {
		return strayTag(s[last:], line+strings.Count(s[:last], "\n"))
	}
	return nil
}

func (c *checker) finish() error {
	if len(c.stack) == 0 {
		return nil
	}
	top := c.stack[len(c.stack)-1]
	return &SyntaxError{Line: top.line, Msg: fmt.Sprintf("unclosed tag <%s>", top.name)}
}

func (c *checker) lineAt(pos int) int {
	if pos > len(c.src) {
		pos = len(c.src)
	}
	return bytes.Count(c.src[:pos], []byte("\n")) + 1
}

func strayTag(s string, line int) error {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '\n' {
			line++
		}
		if s[i] == '<' && isTagStart(s[i+1]) {
			return &SyntaxError{Line: line, Msg: fmt.Sprintf("unterminated tag %s", tagPrefix(s[i:]))}
		}
	}
	return nil
}

func isTagStart(b byte) bool {
	return b == '/' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func tagPrefix(s string) string {
	end := 1
	for end < len(s) && s[end] != ' ' && s[end] != '\n' && s[end] != '\t' && s[end] != '>' {
		end++
	}
	return s[:end]
}
