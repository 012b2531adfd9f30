// Package markdown renders post bodies to HTML and reads markdown documents
// with YAML front matter for bulk import.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options configures a Renderer.
type Options struct {
	// Sanitize scrubs the generated HTML with a UGC policy.
	Sanitize  bool
	HardWraps bool
	// Extensions selects goldmark extensions by name; GFM, linkify, and task
	// lists when empty.
	Extensions []string
}

// Renderer converts markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
	policy *bluemonday.Policy
	strip  *bluemonday.Policy
}

// NewRenderer builds a goldmark engine for opts.
func NewRenderer(opts Options) *Renderer {
	rendererOptions := []renderer.Option{html.WithUnsafe()}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	r := &Renderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extensions(opts.Extensions)...),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(rendererOptions...),
		),
		strip: bluemonday.StripTagsPolicy(),
	}
	if opts.Sanitize {
		r.policy = contentPolicy()
	}
	return r
}

// Render returns the HTML for source.
func (r *Renderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	if r.policy == nil {
		return buf.String(), nil
	}
	return r.policy.Sanitize(buf.String()), nil
}

// PlainText renders source and strips every tag, leaving readable text for
// excerpts and reading time estimates.
func (r *Renderer) PlainText(source string) (string, error) {
	rendered, err := r.Render(source)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(r.strip.Sanitize(rendered)), nil
}

func contentPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "span")
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	policy.AllowAttrs("dir").Matching(bluemonday.Direction).Globally()
	policy.AllowElements("table", "thead", "tbody", "tr", "th", "td")
	return policy
}

var extensionsByName = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

func extensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM, extension.Linkify, extension.TaskList}
	}
	var out []goldmark.Extender
	seen := map[string]bool{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		ext, ok := extensionsByName[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ext)
	}
	return out
}
