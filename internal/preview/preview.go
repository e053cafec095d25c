// Package preview renders manuscript Markdown to sanitized, highlighted HTML
// so authors can check formatting before running LaTeX. Manuscript sigils
// (citations, cross-references) are rewritten to readable text in a pre-pass;
// the LaTeX-only constructs stay untouched.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// Sigil placeholders use Unicode Private Use Area characters. They pass
// through goldmark and bluemonday as plain text (no WithUnsafe needed) and
// are swapped for styled spans after sanitization.
const (
	citeStart = "\uE000" // U+E000: Private Use Area
	citeEnd   = "\uE001"
	refStart  = "\uE002"
	refEnd    = "\uE003"
)

// htmlTemplate wraps the sanitized fragment in a complete HTML5 document with
// the preview stylesheet inlined.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Manuscript Preview</title>
<style>
%s
</style>
</head>
<body>
<main class="manuscript">
%s
</main>
</body>
</html>`

var (
	bracketedCitation = regexp.MustCompile(`\[(@[^]]+)\]`)
	crossReference    = regexp.MustCompile(`\{?@(fig|sfig|eq|tbl|stable|snote):([a-zA-Z0-9_-]+)\}?`)
	bareCitation      = regexp.MustCompile(`@([a-zA-Z0-9_-]+)`)
)

// referenceNames maps sigil prefixes to the words shown in the preview.
var referenceNames = map[string]string{
	"fig":    "Figure",
	"sfig":   "Supplementary Figure",
	"eq":     "Equation",
	"tbl":    "Table",
	"stable": "Supplementary Table",
	"snote":  "Supplementary Note",
}

// Renderer converts manuscript Markdown to a standalone sanitized HTML page.
// A Renderer is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	css    string
}

// New creates a Renderer with GFM extensions, class-based syntax
// highlighting, and a UGC sanitization policy extended for highlight and
// heading classes. css is inlined into the page; empty is allowed.
func New(css string) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // CSS classes so the stylesheet controls colors
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			// Note: WithUnsafe() intentionally NOT used. Sigil spans are
			// placeholders converted after sanitization.
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)).
		OnElements("span", "code", "pre", "div")
	policy.AllowAttrs("id").Matching(regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)).
		OnElements("h1", "h2", "h3", "h4", "h5", "h6")

	return &Renderer{md: md, policy: policy, css: css}
}

// Render converts manuscript Markdown to a sanitized standalone HTML page.
// Supports context cancellation via goroutine + select since goldmark does
// not take a context.
func (r *Renderer) Render(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content = rewriteSigils(content)

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		body := r.policy.Sanitize(buf.String())
		body = resolveSigilSpans(body)
		done <- result{html: fmt.Sprintf(htmlTemplate, sanitizeCSS(r.css), body)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}

// rewriteSigils replaces manuscript citation and cross-reference syntax with
// readable placeholder-wrapped text before goldmark parses the content.
func rewriteSigils(content string) string {
	content = crossReference.ReplaceAllStringFunc(content, func(m string) string {
		parts := crossReference.FindStringSubmatch(m)
		return refStart + referenceNames[parts[1]] + " (" + parts[2] + ")" + refEnd
	})

	content = bracketedCitation.ReplaceAllStringFunc(content, func(m string) string {
		inner := bracketedCitation.FindStringSubmatch(m)[1]
		var keys []string
		for _, part := range strings.Split(inner, ";") {
			if key := strings.TrimPrefix(strings.TrimSpace(part), "@"); key != "" {
				keys = append(keys, key)
			}
		}
		return citeStart + "(" + strings.Join(keys, "; ") + ")" + citeEnd
	})

	return bareCitation.ReplaceAllStringFunc(content, func(m string) string {
		return citeStart + "(" + m[1:] + ")" + citeEnd
	})
}

// resolveSigilSpans swaps the placeholder characters for styled spans in the
// sanitized HTML.
func resolveSigilSpans(body string) string {
	replacer := strings.NewReplacer(
		citeStart, `<span class="citation">`,
		citeEnd, `</span>`,
		refStart, `<span class="cross-ref">`,
		refEnd, `</span>`,
	)
	return replacer.Replace(body)
}

// sanitizeCSS strips style-breaking sequences from the inlined stylesheet.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</style", "")
}
