package pipeline

import (
	"path"
	"regexp"
	"strings"
)

var (
	// New format: bare image line, then an attribute block and caption.
	//
	//	![](FIGURES/fig1.svg)
	//	{#fig:overview width=0.8} **Overview.** More caption prose.
	//
	// The caption runs to the first blank line or end of input.
	newFigureFormat = regexp.MustCompile(`(?s)!\[\]\(([^)]+)\)[ \t]*\n\{([^}]+)\}[ \t]*(.+?)(\n\n|\n?\z)`)

	// Legacy format with an inline attribute block: ![caption](path){attrs}.
	attributedFigure = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)\{([^}]+)\}`)

	// Plain markdown image, matched last.
	plainFigure = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

	figureIDAttr    = regexp.MustCompile(`#([a-zA-Z0-9_:-]+)`)
	quotedAttr      = regexp.MustCompile(`(\w+)=(["'])([^"']*)["']`)
	unquotedAttr    = regexp.MustCompile(`(\w+)=([^\s"']+)`)
	endFigureMarker = regexp.MustCompile(`(\\end\{figure\})`)
)

// figureAttributes holds the parsed {...} attribute block of a figure.
type figureAttributes struct {
	id       string
	position string
	width    string
}

// ConvertFigures rewrites the three supported figure syntaxes as LaTeX figure
// environments, most specific first so the plain-image pattern never eats an
// attributed figure. Supplementary figures get a \newpage after each
// environment. Inline code is already placeholder-protected when this runs,
// so backtick spans in captions cannot confuse the patterns.
func ConvertFigures(content string, supplementary bool) string {
	content = newFigureFormat.ReplaceAllStringFunc(content, func(m string) string {
		g := newFigureFormat.FindStringSubmatch(m)
		attrs := parseFigureAttributes(g[2])
		return renderLatexFigure(g[1], strings.TrimSpace(g[3]), attrs) + g[4]
	})

	content = attributedFigure.ReplaceAllStringFunc(content, func(m string) string {
		g := attributedFigure.FindStringSubmatch(m)
		attrs := parseFigureAttributes(g[3])
		return renderLatexFigure(g[2], g[1], attrs)
	})

	content = plainFigure.ReplaceAllStringFunc(content, func(m string) string {
		g := plainFigure.FindStringSubmatch(m)
		return renderLatexFigure(g[2], g[1], figureAttributes{})
	})

	if supplementary {
		content = endFigureMarker.ReplaceAllString(content, "$1\n\\newpage")
	}
	return content
}

// parseFigureAttributes reads an attribute block like
// {#fig:overview tex_position="!ht" width=0.8}. Both quoted and bare values
// are accepted.
func parseFigureAttributes(attrString string) figureAttributes {
	var attrs figureAttributes

	if m := figureIDAttr.FindStringSubmatch(attrString); m != nil {
		attrs.id = m[1]
	}

	set := func(key, value string) {
		switch key {
		case "tex_position":
			attrs.position = value
		case "width":
			attrs.width = value
		}
	}
	for _, m := range quotedAttr.FindAllStringSubmatch(attrString, -1) {
		set(m[1], m[3])
	}
	for _, m := range unquotedAttr.FindAllStringSubmatch(attrString, -1) {
		set(m[1], m[2])
	}
	return attrs
}

// renderLatexFigure builds one figure environment from a path, caption, and
// parsed attributes.
func renderLatexFigure(figurePath, caption string, attrs figureAttributes) string {
	latexPath := normalizeFigurePath(figurePath)

	position := attrs.position
	if position == "" {
		position = "ht"
	}

	width := attrs.width
	switch {
	case width == "":
		width = "\\linewidth"
	case !strings.HasPrefix(width, "\\"):
		// A bare number is a fraction of the line width.
		width += "\\linewidth"
	}

	caption = boldSpan.ReplaceAllString(caption, `\textbf{$1}`)
	caption = italicSpan.ReplaceAllString(caption, `\textit{$1}`)

	var b strings.Builder
	b.WriteString("\\begin{figure}[" + position + "]\n")
	b.WriteString("\\centering\n")
	b.WriteString("\\includegraphics[width=" + width + "]{" + latexPath + "}\n")
	b.WriteString("\\caption{" + caption + "}")
	if attrs.id != "" {
		b.WriteString("\n\\label{" + attrs.id + "}")
	}
	b.WriteString("\n\\end{figure}")
	return b.String()
}

// normalizeFigurePath maps a manuscript-relative image path to the layout the
// LaTeX build expects: the Figures/ directory spelling, one subdirectory per
// figure holding its rendered files, and PNG in place of SVG sources.
func normalizeFigurePath(p string) string {
	p = strings.ReplaceAll(p, "FIGURES/", "Figures/")

	if rest, ok := strings.CutPrefix(p, "Figures/"); ok && !strings.Contains(rest, "/") {
		stem := strings.TrimSuffix(rest, path.Ext(rest))
		if stem != "" {
			p = "Figures/" + stem + "/" + rest
		}
	}

	if strings.HasSuffix(p, ".svg") {
		p = strings.TrimSuffix(p, ".svg") + ".png"
	}
	return p
}
