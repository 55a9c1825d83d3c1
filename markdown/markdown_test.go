package markdown

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRenderInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"use `fmt.Println` here", "<code>fmt.Println</code>"},
		{"[Google](https://google.com)", `<a href="https://google.com">Google</a>`},
		{"~~gone~~", "<del>gone</del>"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := Render(&buf, []byte(tt.input)); err != nil {
			t.Fatalf("Render(%q): %v", tt.input, err)
		}
		if !strings.Contains(buf.String(), tt.expected) {
			t.Errorf("Render(%q) = %q, want it to contain %q", tt.input, buf.String(), tt.expected)
		}
	}
}

func TestRenderHeadingIDs(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, []byte("## Getting Started")); err != nil {
		t.Fatal(err)
	}
	want := `<h2 id="getting-started">Getting Started</h2>`
	if !strings.Contains(buf.String(), want) {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestRenderCodeBlockWithLanguage(t *testing.T) {
	input := "```go\nfmt.Println(\"<hi>\")\n```"
	var buf bytes.Buffer
	if err := Render(&buf, []byte(input)); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	for _, want := range []string{
		`<div class="code-block-wrapper">`,
		`<span class="code-lang code-lang-go">go</span>`,
		`<code class="language-go">`,
		`fmt.Println(&quot;&lt;hi&gt;&quot;)`,
		"</code></pre></div>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("code block output %q missing %q", got, want)
		}
	}
}

func TestRenderCodeBlockWithoutLanguage(t *testing.T) {
	input := "```\nplain\n```"
	var buf bytes.Buffer
	if err := Render(&buf, []byte(input)); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if strings.Contains(got, "code-block-wrapper") {
		t.Errorf("unexpected language wrapper: %q", got)
	}
	if !strings.Contains(got, `<pre class="code-block"><code>plain`) {
		t.Errorf("got %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	input := "| a | b |\n|---|---|\n| 1 | 2 |"
	var buf bytes.Buffer
	if err := Render(&buf, []byte(input)); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "<td>1</td>") {
		t.Errorf("expected table markup, got %q", got)
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{name: "plain markdown", src: "# Hi\n\nSome *text*.\n"},
		{name: "inline component", src: "# Hi\n\n<Callout>text</Callout>\n"},
		{name: "block component", src: "<Callout type=\"note\">\n\nInside **markdown**.\n\n</Callout>\n"},
		{name: "self closing and void", src: "<Figure src=\"/a.jpg\" />\n\nline<br>break\n"},
		{name: "comment", src: "<!-- Start writing your post here -->\n\n## Intro\n"},
		{name: "closed expression", src: "Total: {1 + 2} items\n"},
		{name: "escaped brace", src: "literal \\{ brace\n"},
		{name: "code is ignored", src: "use `{` and `<Foo`\n\n```jsx\n<Open>\n{x\n```\n"},
		{name: "autolink", src: "see <https://example.com>\n"},
		{name: "unclosed component", src: "<Callout>\n\ntext\n", wantErr: "line 1: unclosed tag <Callout>"},
		{name: "closing without opener", src: "text\n\n</NotOpened>\n", wantErr: "line 3: unexpected closing tag </NotOpened>"},
		{name: "mismatched closing", src: "<A>\n\n</B>\n", wantErr: "line 3: expected closing tag </A> for <A> on line 1, found </B>"},
		{name: "cut off tag", src: "<Callout type=\"x\"\n", wantErr: "line 1: unterminated tag <Callout"},
		{name: "unterminated expression", src: "intro\n\nvalue {unclosed\nexpression\n", wantErr: "line 3: unterminated expression, expected }"},
		{
			name:    "broken component body",
			src:     "<Callout type=\"x\"\n{unclosed expression\n</NotOpened>\n",
			wantErr: "unterminated tag <Callout",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Compile([]byte(tt.src))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Compile returned %v", err)
				}
				return
			}
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("err = %v, want *SyntaxError", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %q, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestHeadings(t *testing.T) {
	src := "# Title\n\n## Intro\n\ntext\n\n### Deep *Dive*\n\n#### Skipped\n\n## Outro\n"
	got := Headings([]byte(src))
	want := []Heading{
		{Level: 2, ID: "intro", Text: "Intro"},
		{Level: 3, ID: "deep-dive", Text: "Deep Dive"},
		{Level: 2, ID: "outro", Text: "Outro"},
	}
	if len(got) != len(want) {
		t.Fatalf("Headings = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Headings[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown("# Hi").Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `<h1 id="hi">Hi</h1>`) {
		t.Errorf("got %q", buf.String())
	}
}
